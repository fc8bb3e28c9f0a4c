package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Carlvinchi/recipiverse/internal/models"
)

// ObjectStore is a mock implementation of storage.ObjectStore.
type ObjectStore struct {
	mock.Mock
}

func (m *ObjectStore) Upload(ctx context.Context, path string, blob *models.Blob) (string, error) {
	args := m.Called(ctx, path, blob)
	return args.String(0), args.Error(1)
}

func (m *ObjectStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
