package domain

import (
	"context"
	"io"
)

// MediaStore persists uploaded media (profile and event images) under a
// path-like key and returns the stored object's key.
type MediaStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}
