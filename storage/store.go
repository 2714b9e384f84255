// Package storage contains the object store adapter. All file bytes
// live under a bucket split into an uploads/ and a trash/ prefix, and
// a file is "in trash" purely by which prefix its key sits under.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

const (
	UploadsPrefix = "uploads/"
	TrashPrefix   = "trash/"
)

// ErrNotFound is returned when a key doesn't exist in the bucket.
var ErrNotFound = errors.New("object not found")

// Object describes a single stored blob.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	CreatedAt   time.Time
}

// Store is the surface the rest of the app uses to talk to the object
// store. The S3 client implements it in production, tests use MemStore.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	Copy(ctx context.Context, src, dst string) error
	Delete(ctx context.Context, key string) error
	// DeleteBatch removes every key and returns how many were deleted
	DeleteBatch(ctx context.Context, keys []string) (int, error)
	List(ctx context.Context, prefix string) ([]Object, error)
}
