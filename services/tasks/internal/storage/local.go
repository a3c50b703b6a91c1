package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const defaultLocalDirectory = "./data/photos"

// LocalBackend writes photos under a directory, with the content type in a
// sidecar file next to each object.
type LocalBackend struct {
	root string
}

func NewLocalBackend(directory string) (*LocalBackend, error) {
	if strings.TrimSpace(directory) == "" {
		directory = defaultLocalDirectory
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create photo directory: %w", err)
	}
	return &LocalBackend{root: directory}, nil
}

func (b *LocalBackend) path(key string) string {
	return filepath.Join(b.root, filepath.FromSlash(key))
}

func (b *LocalBackend) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	if !validKey(key) {
		return Object{}, fmt.Errorf("%w: invalid key %q", ErrRejected, key)
	}
	if len(data) == 0 {
		return Object{}, fmt.Errorf("%w: empty photo", ErrRejected)
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	target := b.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Object{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.WriteFile(target+".type", []byte(contentType), 0o644); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return Object{Key: key, ContentType: contentType, Size: int64(len(data))}, nil
}

func (b *LocalBackend) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	if !validKey(key) {
		return nil, Object{}, ErrNotFound
	}
	f, err := os.Open(b.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Object{}, ErrNotFound
		}
		return nil, Object{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Object{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(b.path(key) + ".type"); err == nil && len(raw) > 0 {
		contentType = string(raw)
	}

	return f, Object{Key: key, ContentType: contentType, Size: info.Size()}, nil
}

func (b *LocalBackend) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrNotFound
	}
	if err := os.Remove(b.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_ = os.Remove(b.path(key) + ".type")
	return nil
}
