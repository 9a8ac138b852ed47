package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound reports that no object exists at the requested path. Absence
// is a normal outcome callers are expected to handle.
var ErrNotFound = errors.New("object not found")

// Object is one stored media item. Body is single-consumption; the caller
// owns closing it.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

type Store interface {
	Get(ctx context.Context, path string) (*Object, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
