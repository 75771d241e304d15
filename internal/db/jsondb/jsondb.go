// Package jsondb stores each document as a formatted JSON file inside a data directory.
// Writes go to a temporary file in the same directory which is then renamed over
// the target, so a crash mid-write never leaves a truncated document behind.
package jsondb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/patric-chuzhbe/studydesk/internal/db/storage"
)

const fileExt = ".json"

type JSONDB struct {
	dir string
}

func New(dir string) (*JSONDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/New(): error while `os.MkdirAll()` calling: %w", err)
	}

	return &JSONDB{dir: dir}, nil
}

// Path returns the file backing the document name.
func (db *JSONDB) Path(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidDocumentName, name)
	}

	return filepath.Join(db.dir, filepath.Clean(name)+fileExt), nil
}

func (db *JSONDB) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := db.Path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (db *JSONDB) Write(ctx context.Context, name string, data []byte) error {
	path, err := db.Path(name)
	if err != nil {
		return err
	}

	return writeFileAtomically(path, data)
}

func writeFileAtomically(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("error syncing file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func (db *JSONDB) Ping(ctx context.Context) error {
	_, err := os.Stat(db.dir)
	return err
}

func (db *JSONDB) Close() error {
	return nil
}
