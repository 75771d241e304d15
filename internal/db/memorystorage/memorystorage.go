// Package memorystorage keeps documents in process memory. It is used when no
// data directory or database is configured, and throughout the tests.
package memorystorage

import (
	"context"
	"sync"

	"github.com/patric-chuzhbe/studydesk/internal/db/storage"
)

type MemoryStorage struct {
	mu        sync.RWMutex
	documents map[string][]byte
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		documents: map[string][]byte{},
	}, nil
}

func (s *MemoryStorage) Read(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.documents[name]
	if !ok {
		return nil, storage.ErrDocumentNotFound
	}

	return append([]byte(nil), data...), nil
}

func (s *MemoryStorage) Write(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return storage.ErrInvalidDocumentName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[name] = append([]byte(nil), data...)

	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
