package storage

import (
	"context"
	"io"
)

// Storage is the blob store for plant photographs. Keys are scoped per
// user: no implementation may read or write another user's objects.
type Storage interface {
	Upload(ctx context.Context, file io.Reader, userID uint, key string) (string, error)
	Open(ctx context.Context, userID uint, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, userID uint, key string) (bool, error)
	Delete(ctx context.Context, userID uint, key string) error
}
