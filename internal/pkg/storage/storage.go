// Package storage stores uploaded files on S3-compatible object storage or on
// local disk behind one interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Object is an open stored file. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Storage is an object store addressed by slash-separated keys.
type Storage interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (*Object, error)
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
}

// Key prefixes per content type.
const (
	DocumentsPrefix = "documents"
	EventsPrefix    = "events"
)

// ObjectKey joins prefix and name into a clean key.
func ObjectKey(prefix, name string) string {
	return path.Join(prefix, name)
}

// cleanKey rejects keys that would escape the storage root.
func cleanKey(key string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(key, `\`, "/")), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return cleaned, nil
}

// NewFromEnv returns S3 storage when S3_ENABLED is set, local disk otherwise.
func NewFromEnv(ctx context.Context) (Storage, error) {
	cfg, err := LoadS3Config()
	if err != nil {
		return nil, err
	}
	if cfg.Enabled {
		s, err := NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			log.Warnf("[Storage] bucket %s not reachable yet: %v", cfg.BucketName, err)
		}
		return s, nil
	}
	local, err := NewLocalStorage(LocalRoot())
	if err != nil {
		return nil, err
	}
	log.Infof("[Storage] Using local storage at %s", local.Root())
	return local, nil
}
