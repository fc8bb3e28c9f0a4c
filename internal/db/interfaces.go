package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// ServerTimestamp is a sentinel field value. The store replaces it with
// the server-assigned write time, so creation timestamps are never
// client-clocked.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

// Record is one stored document: its ID plus a flat field map.
type Record struct {
	ID     string
	Fields map[string]any
}

// Filter is an equality filter on a single field. A nil *Filter selects
// the whole collection.
type Filter struct {
	Field string
	Value any
}

// DocRef names one document for batch operations.
type DocRef struct {
	Collection string
	ID         string
}

// DocumentStore is the structured-record contract the controllers are
// written against. The production implementation is Firestore; tests
// substitute a recording mock.
type DocumentStore interface {
	// Get retrieves one document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Record, error)
	// Set writes a document at a caller-chosen ID, creating or replacing it.
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	// Update patches only the given fields of an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes one document.
	Delete(ctx context.Context, collection, id string) error
	// Query returns the documents matching the filter, in store order.
	Query(ctx context.Context, collection string, filter *Filter) ([]Record, error)
	// AddAutoID writes a document under a store-assigned ID and returns it.
	AddAutoID(ctx context.Context, collection string, fields map[string]any) (string, error)
	// BatchDelete removes the referenced documents in one atomic commit.
	BatchDelete(ctx context.Context, refs []DocRef) error
}
