package ports

import (
	"context"
	"io"

	"github.com/storefront/gateway/internal/core/domain"
)

// BlobStore is the Blob Service holding uploaded file bytes.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, size int64, r io.Reader) error
	// Get returns the blob or domain.ErrBlobNotFound.
	Get(ctx context.Context, key string) (*domain.Blob, error)
	Ping(ctx context.Context) error
}

// KeyReserver claims a blob key before it is written so two uploads cannot
// share one. Reserve returns false when the key is already taken.
type KeyReserver interface {
	Reserve(ctx context.Context, key string) (bool, error)
}
