// Package mockstorage provides a testify-based mock of the document store,
// used to drive storage failures through the service and router in tests.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// StorageMock implements storage.Store with testify expectations.
type StorageMock struct {
	mock.Mock
}

// Read mocks loading a document body.
func (m *StorageMock) Read(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// Write mocks replacing a document body.
func (m *StorageMock) Write(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the store.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
