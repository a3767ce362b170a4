package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

// Upload echoes obj back with Size filled when the expectation returns a func.
func (m *MockStorage) Upload(ctx context.Context, obj storage.Object, r io.Reader) (storage.Object, error) {
	args := m.Called(ctx, obj, r)
	switch v := args.Get(0).(type) {
	case func(storage.Object) storage.Object:
		return v(obj), args.Error(1)
	case storage.Object:
		return v, args.Error(1)
	}
	return storage.Object{}, args.Error(1)
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
