// Package storage defines the document-store contract shared by the JSON file,
// in-memory and PostgreSQL backends, and the typed Load/Save helpers built on it.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/patric-chuzhbe/studydesk/internal/logger"
)

// ErrDocumentNotFound is returned by Read when no document with the given name exists.
var ErrDocumentNotFound = errors.New("document not found")

// ErrInvalidDocumentName is returned for names that would escape the store's namespace.
var ErrInvalidDocumentName = errors.New("invalid document name")

type Reader interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

type Writer interface {
	Write(ctx context.Context, name string, data []byte) error
}

// Store keeps named JSON documents. Write must replace a document as a whole:
// a reader sees either the previous or the new body, never a partial one.
type Store interface {
	Reader
	Writer
	Ping(ctx context.Context) error
	Close() error
}

// Load decodes the document name into a fresh T. A missing document and a
// document that does not parse as T both yield def with a nil error; the
// latter is logged because it usually means the file was damaged.
func Load[T any](ctx context.Context, db Reader, name string, def T) (T, error) {
	raw, err := db.Read(ctx, name)
	if errors.Is(err, ErrDocumentNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("reading document %q: %w", name, err)
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Log.Warnw("document is corrupt, falling back to default", "document", name, "error", err)
		return def, nil
	}

	return value, nil
}

// Save encodes value as indented JSON and replaces the document name.
func Save[T any](ctx context.Context, db Writer, name string, value T) error {
	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshaling document %q: %w", name, err)
	}

	if err := db.Write(ctx, name, data); err != nil {
		return fmt.Errorf("writing document %q: %w", name, err)
	}

	return nil
}
