package service

import "context"

// BlobStore holds opaque binary objects (listing images, profile pictures)
// by key.
type BlobStore interface {
	// Put stores data under key and returns the key it was stored under.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Get returns a NOT_FOUND error when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete succeeds when the key is already absent.
	Delete(ctx context.Context, key string) error
}

// ImageCompressor re-encodes an uploaded image to fit a size budget.
type ImageCompressor interface {
	Compress(data []byte, maxKB int) ([]byte, error)
}
