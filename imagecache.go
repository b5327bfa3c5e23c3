package pubindex

import (
	"context"
	"errors"
)

// Image cache errors.
var (
	ErrCacheMiss   = errors.New("pubindex: image cache miss")
	ErrCacheClosed = errors.New("pubindex: image cache closed")
)

// ImageCache stores rendered preview images by content key. Keys change
// whenever the image would change, so entries are never updated in place.
// Implementations must be safe for concurrent use.
type ImageCache interface {
	// Get returns ErrCacheMiss when key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}
