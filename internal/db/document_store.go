package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Carlvinchi/recipiverse/internal/models"
)

// firestoreStore implements DocumentStore on Cloud Firestore.
type firestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps a Firestore client as a DocumentStore.
func NewFirestoreStore(client *firestore.Client) DocumentStore {
	return &firestoreStore{client: client}
}

// encodeFields maps domain field values onto Firestore value types:
// models.LatLng becomes a GeoPoint and the ServerTimestamp sentinel
// becomes firestore.ServerTimestamp.
func encodeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case serverTimestamp:
			out[k] = firestore.ServerTimestamp
		case models.LatLng:
			out[k] = &latlng.LatLng{Latitude: val.Latitude, Longitude: val.Longitude}
		case *models.LatLng:
			if val != nil {
				out[k] = &latlng.LatLng{Latitude: val.Latitude, Longitude: val.Longitude}
			}
		default:
			out[k] = v
		}
	}
	return out
}

// decodeFields is the inverse of encodeFields for values read back.
func decodeFields(fields map[string]any) map[string]any {
	for k, v := range fields {
		if gp, ok := v.(*latlng.LatLng); ok && gp != nil {
			fields[k] = models.LatLng{Latitude: gp.Latitude, Longitude: gp.Longitude}
		}
	}
	return fields
}

func (s *firestoreStore) Get(ctx context.Context, collection, id string) (*Record, error) {
	if id == "" {
		return nil, errors.New("document ID cannot be empty for Get operation")
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return &Record{ID: snap.Ref.ID, Fields: decodeFields(snap.Data())}, nil
}

func (s *firestoreStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return errors.New("document ID cannot be empty for Set operation")
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, encodeFields(fields)); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return errors.New("document ID cannot be empty for Update operation")
	}
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range encodeFields(fields) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Delete(ctx context.Context, collection, id string) error {
	if id == "" {
		return errors.New("document ID cannot be empty for Delete operation")
	}
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Query(ctx context.Context, collection string, filter *Filter) ([]Record, error) {
	query := s.client.Collection(collection).Query
	if filter != nil {
		query = query.Where(filter.Field, "==", filter.Value)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []Record
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", collection, err)
		}
		records = append(records, Record{ID: snap.Ref.ID, Fields: decodeFields(snap.Data())})
	}
	return records, nil
}

func (s *firestoreStore) AddAutoID(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, encodeFields(fields))
	if err != nil {
		return "", fmt.Errorf("failed to add document to %s: %w", collection, err)
	}
	return ref.ID, nil
}

// BatchDelete removes the referenced documents in a single write batch,
// so the deletions commit atomically.
func (s *firestoreStore) BatchDelete(ctx context.Context, refs []DocRef) error {
	if len(refs) == 0 {
		return nil
	}
	batch := s.client.Batch()
	for _, ref := range refs {
		batch.Delete(s.client.Collection(ref.Collection).Doc(ref.ID))
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch delete: %w", err)
	}
	return nil
}
