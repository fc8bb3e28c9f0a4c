// Package mocks contains testify mocks for the vendor-facing contracts.
// Tests assert call order through mock.Mock.Calls, so every method routes
// through Called even when the return values are trivial.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Carlvinchi/recipiverse/internal/db"
)

// DocumentStore is a mock implementation of db.DocumentStore.
type DocumentStore struct {
	mock.Mock
}

func (m *DocumentStore) Get(ctx context.Context, collection, id string) (*db.Record, error) {
	args := m.Called(ctx, collection, id)
	if rec := args.Get(0); rec != nil {
		return rec.(*db.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *DocumentStore) Query(ctx context.Context, collection string, filter *db.Filter) ([]db.Record, error) {
	args := m.Called(ctx, collection, filter)
	if recs := args.Get(0); recs != nil {
		return recs.([]db.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStore) AddAutoID(ctx context.Context, collection string, fields map[string]any) (string, error) {
	args := m.Called(ctx, collection, fields)
	return args.String(0), args.Error(1)
}

func (m *DocumentStore) BatchDelete(ctx context.Context, refs []db.DocRef) error {
	args := m.Called(ctx, refs)
	return args.Error(0)
}
