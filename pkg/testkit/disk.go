package testkit

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/kasir/pkg/storage"
)

// MockDisk is a testify mock of storage.Disk. Expectations are set with On;
// Put drains the reader before returning.
type MockDisk struct {
	mock.Mock
}

var _ storage.Disk = (*MockDisk)(nil)

func (m *MockDisk) Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	_, _ = io.Copy(io.Discard, r)
	return m.Called(ctx, path, contentType).Error(0)
}

func (m *MockDisk) Get(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockDisk) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockDisk) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockDisk) URL(path string) string {
	return "https://cdn.test/" + path
}
