// Package uploads keeps each user's uploaded files in a directory of their own
// below the uploads root.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrInvalidFilename    = errors.New("invalid filename")
	ErrFileNotFound       = errors.New("file not found")
	ErrNoFile             = errors.New("no file part")
)

// DocumentExtensions are accepted for uploads and handwriting samples.
var DocumentExtensions = []string{"pdf", "png", "jpg", "jpeg", "docx"}

type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("in internal/uploads/uploads.go/New(): error while `os.MkdirAll()` calling: %w", err)
	}

	return &Store{root: root}, nil
}

// Allowed reports whether filename has one of exts as its extension (case-insensitive).
func Allowed(filename string, exts []string) bool {
	dot := strings.LastIndexByte(filename, '.')
	if dot < 0 {
		return false
	}
	ext := strings.ToLower(filename[dot+1:])
	for _, allowed := range exts {
		if ext == allowed {
			return true
		}
	}

	return false
}

// SanitizeFilename reduces name to a safe base name: path components are
// dropped, whitespace becomes '_', only ASCII letters, digits, '.', '_' and '-'
// are kept, and leading dots or underscores are stripped.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(name), "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	return strings.TrimLeft(b.String(), "._")
}

// ValidUsername reports whether username can name a directory of its own below
// the uploads root: one local path element that is not made of dots only.
func ValidUsername(username string) bool {
	return strings.Trim(username, ".") != "" &&
		filepath.IsLocal(username) &&
		!strings.ContainsAny(username, `/\`)
}

func (s *Store) userDir(username string) (string, error) {
	if !ValidUsername(username) {
		return "", fmt.Errorf("%w: username %q", ErrInvalidFilename, username)
	}
	dir := filepath.Join(s.root, username)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}

func (s *Store) filePath(username, filename string) (string, error) {
	dir, err := s.userDir(username)
	if err != nil {
		return "", err
	}
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	return filepath.Join(dir, filename), nil
}

// Save stores r under the sanitized filename in the user's directory and returns
// the stored name. Files whose extension is not in exts are rejected before
// anything is written.
func (s *Store) Save(username, filename string, r io.Reader, exts []string) (stored string, err error) {
	if !Allowed(filename, exts) {
		return "", ErrFileTypeNotAllowed
	}
	stored = SanitizeFilename(filename)
	if !Allowed(stored, exts) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	path, err := s.filePath(username, stored)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return "", fmt.Errorf("error writing upload: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}

	return stored, nil
}

// List returns the names of the user's regular files, sorted.
func (s *Store) List(username string) ([]string, error) {
	dir, err := s.userDir(username)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	return files, nil
}

// Open returns the file together with its sniffed content type. The caller closes it.
func (s *Store) Open(username, filename string) (*os.File, string, error) {
	path, err := s.filePath(username, filename)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrFileNotFound
	}
	if err != nil {
		return nil, "", err
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		_ = file.Close()
		return nil, "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, "", err
	}

	return file, mtype.String(), nil
}

// Delete removes the file. Deleting a file that does not exist is not an error.
func (s *Store) Delete(username, filename string) error {
	path, err := s.filePath(username, filename)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
