package storage

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotExist is returned by Load when neither the file nor its backup exists.
var ErrNotExist = fmt.Errorf("storage: %w", os.ErrNotExist)

// Store defines the interface for a snapshot storage backend.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Load(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}
