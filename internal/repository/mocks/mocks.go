package mocks

import (
	"context"

	"github.com/ganot/rbm-dashboard/internal/repository"
	"github.com/stretchr/testify/mock"
)

// BlobStore is a mock for repository.BlobStore.
type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Get(ctx context.Context, key string) (repository.Object, error) {
	args := m.Called(ctx, key)
	if obj, ok := args.Get(0).(repository.Object); ok {
		return obj, args.Error(1)
	}
	return repository.Object{}, args.Error(1)
}

func (m *BlobStore) Put(ctx context.Context, key string, body []byte, opts repository.PutOptions) (string, error) {
	args := m.Called(ctx, key, body, opts)
	return args.String(0), args.Error(1)
}
