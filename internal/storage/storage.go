// Package storage keeps uploaded media. Keys are slash separated paths such
// as "images/<uuid>.jpg"; the local driver maps them under a root directory
// and the s3 driver maps them under an optional bucket prefix.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/config"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("object not found")

// Object describes a stored file.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Store is the contract the upload handlers depend on.
type Store interface {
	// Put writes body under key and returns the number of bytes stored.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (int64, error)
	Stat(ctx context.Context, key string) (*Object, error)
	// Open returns the object contents; the caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, *Object, error)
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.UploadConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Dir)
	case "s3":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
