// Package storage abstracts "upload a binary blob, get back a durable
// URL" over Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"

	"github.com/Carlvinchi/recipiverse/internal/config"
	"github.com/Carlvinchi/recipiverse/internal/db"
	"github.com/Carlvinchi/recipiverse/internal/models"
)

// ObjectStore is the blob storage contract the upload pipeline and post
// lifecycle are written against.
type ObjectStore interface {
	// Upload writes the blob under the given object path and returns its
	// durable public URL.
	Upload(ctx context.Context, path string, blob *models.Blob) (string, error)
	// Delete removes the object a previously returned URL points at.
	Delete(ctx context.Context, url string) error
}

// gcsStore implements ObjectStore on a single GCS bucket.
type gcsStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore wraps a GCS client and bucket as an ObjectStore.
func NewGCSStore(client *gcs.Client, bucket string) (ObjectStore, error) {
	if client == nil {
		return nil, errors.New("storage: GCS client is nil")
	}
	b := strings.TrimSpace(bucket)
	if b == "" {
		return nil, errors.New("storage: bucket is empty")
	}
	return &gcsStore{client: client, bucket: b}, nil
}

// InitClient creates the underlying GCS client using the same credential
// resolution as the Firebase clients.
func InitClient(ctx context.Context, cfg *config.Config) (*gcs.Client, error) {
	credsOption, err := db.CredentialsOption(cfg)
	if err != nil {
		return nil, err
	}
	if credsOption != nil {
		return gcs.NewClient(ctx, credsOption)
	}
	return gcs.NewClient(ctx)
}

func (s *gcsStore) objectURL(path string) string {
	return "https://storage.googleapis.com/" + s.bucket + "/" + path
}

func (s *gcsStore) Upload(ctx context.Context, path string, blob *models.Blob) (string, error) {
	if blob.Empty() {
		return "", errors.New("storage: blob is empty")
	}
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return "", errors.New("storage: object path is empty")
	}

	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = blob.ContentType
	if _, err := w.Write(blob.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %q: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %q: %w", path, err)
	}
	return s.objectURL(path), nil
}

func (s *gcsStore) Delete(ctx context.Context, url string) error {
	prefix := "https://storage.googleapis.com/" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return fmt.Errorf("object URL %q does not belong to bucket %q", url, s.bucket)
	}
	object := strings.TrimPrefix(url, prefix)
	if object == "" {
		return fmt.Errorf("object URL %q has no object path", url)
	}
	if err := s.client.Bucket(s.bucket).Object(object).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %q: %w", object, err)
	}
	return nil
}
