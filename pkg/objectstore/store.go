package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound means the object was deleted or superseded between event
// emission and processing. Ingestion treats it as a benign no-op.
var ErrNotFound = errors.New("object not found")

// Store abstracts the bucket/key object storage that receives patient
// uploads.
type Store interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, bucket, key string) (bool, error)
}
