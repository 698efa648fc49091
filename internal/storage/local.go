package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores objects as files below a root directory.
type Local struct {
	root string
}

var _ Store = (*Local)(nil)

func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, errors.New("storage: local root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Local{root: root}, nil
}

// resolve maps key into the root; ".." segments cannot climb out of it.
func (l *Local) resolve(key string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if clean == "" || strings.Contains(clean, `\`) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *Local) Put(ctx context.Context, key string, body io.Reader, contentType string) (int64, error) {
	dst, err := l.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("storage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("storage: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("storage: close %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("storage: rename %s: %w", key, err)
	}

	return n, nil
}

func (l *Local) Stat(ctx context.Context, key string) (*Object, error) {
	p, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if fi.IsDir() {
		return nil, ErrNotFound
	}
	return &Object{
		Key:         key,
		Size:        fi.Size(),
		ContentType: contentTypeFor(key),
		ModTime:     fi.ModTime().UTC(),
	}, nil
}

func (l *Local) Open(ctx context.Context, key string) (io.ReadCloser, *Object, error) {
	obj, err := l.Stat(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	p, _ := l.resolve(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return f, obj, nil
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
