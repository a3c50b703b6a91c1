package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrNotFound = errors.New("storage: object not found")
	// ErrUnavailable marks failures worth retrying: timeouts, lost connections.
	ErrUnavailable = errors.New("storage: backend unavailable")
	// ErrRejected marks payloads the backend will never accept.
	ErrRejected = errors.New("storage: payload rejected")
)

type Object struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// PhotoStorage persists submission photos.
type PhotoStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, Object, error)
	Delete(ctx context.Context, key string) error
}

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

func validKey(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return false
	}
	return true
}
