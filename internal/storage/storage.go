// Package storage provides the object store adapter for durable blob
// storage. It defines the ObjectStore interface and an S3 implementation
// with ordered credential resolution.
package storage

import (
	"context"
	"time"
)

// ObjectStore defines the interface for durable blob storage.
// Public URLs are a deterministic function of the bucket and key, so callers
// may compute the expected URL before an upload completes, but must only
// persist it after the upload call returns successfully.
type ObjectStore interface {
	// UploadFile uploads a local file to the given key and returns the
	// public URL.
	UploadFile(ctx context.Context, localPath, key string) (string, error)

	// UploadBytes uploads an in-memory buffer to the given key with an
	// explicit content type and returns the public URL.
	UploadBytes(ctx context.Context, data []byte, key, contentType string) (string, error)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// SignedURL returns a time-limited read URL for the object.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PublicURL computes the public URL for a key without a round-trip.
	PublicURL(key string) string
}
