package storage

import "context"

// BlobStorage is the gateway to opaque byte blobs. Backends are
// interchangeable at deploy time; keys are generated, never caller-chosen.
type BlobStorage interface {
	// Upload stores data under a generated key `{folder}/{uuid}{ext}` and
	// returns the key plus its public URL
	Upload(ctx context.Context, data []byte, contentType, folder string) (key string, url string, err error)

	// Download retrieves a blob by key
	Download(ctx context.Context, key string) ([]byte, error)

	// Delete removes a blob; failures are logged, the return reports success.
	// Used by deletion cascades, which proceed best-effort.
	Delete(ctx context.Context, key string) bool

	// Exists checks if a blob exists
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for a key
	URL(key string) string

	// Health checks storage backend health
	Health(ctx context.Context) error
}
