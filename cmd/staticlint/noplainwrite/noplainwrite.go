package noplainwrite

import (
	"go/ast"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports os.WriteFile and os.Create outside tests. Both truncate the
// target first, so a crash mid-write leaves a partial document behind; stored
// files are written to a temp file and renamed into place instead.
var Analyzer = &analysis.Analyzer{
	Name: "noplainwrite",
	Doc:  "prohibits os.WriteFile and os.Create outside tests",
	Run:  run,
}

var forbidden = map[string]bool{
	"WriteFile": true,
	"Create":    true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		filename := pass.Fset.File(file.Pos()).Name()
		if isGoBuildCacheFile(filename) || strings.HasSuffix(filename, "_test.go") {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || !forbidden[sel.Sel.Name] {
				return true
			}

			fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
			if ok && fn.Pkg() != nil && fn.Pkg().Path() == "os" {
				pass.Reportf(call.Pos(), "os.%s writes in place; write a temp file and rename it", sel.Sel.Name)
			}

			return true
		})
	}
	return nil, nil
}

func isGoBuildCacheFile(path string) bool {
	path = filepath.ToSlash(path)
	return strings.Contains(path, "/go-build/") || strings.Contains(path, `\go-build\`)
}
