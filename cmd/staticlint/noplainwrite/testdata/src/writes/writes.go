package writes

import (
	"os"
	"path/filepath"
)

type store struct{}

func (store) WriteFile(string, []byte) error { return nil }

func plain(dir string, data []byte) error {
	if err := os.WriteFile(filepath.Join(dir, "doc.json"), data, 0o600); err != nil { // want `os\.WriteFile writes in place`
		return err
	}
	f, err := os.Create(filepath.Join(dir, "other.json")) // want `os\.Create writes in place`
	if err != nil {
		return err
	}
	return f.Close()
}

func atomic(dir string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".doc-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, "doc.json"))
}

func other(s store) error {
	return s.WriteFile("doc.json", nil)
}
