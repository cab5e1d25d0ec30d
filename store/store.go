// Package store abstracts object storage for datasets and fitted artifacts.
// Training pushes the training set and model artifacts through a Store; the
// backend (local disk, S3, MinIO) is a deployment choice.
package store

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = os.ErrNotExist

// Store is a flat key/value object store. Keys use "/" separators; backends
// map them onto paths or object keys as appropriate.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
