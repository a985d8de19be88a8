package model

import (
	"context"
	"io"
)

// Storage is a flat key/value object store. Download returns ErrNotFound
// for missing keys.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
