package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/slug"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/storage"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/upload"
)

// FileUpload is an uploaded file handed over by a controller, which owns closing it.
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// storedFile is an upload after it has been written to storage.
type storedFile struct {
	Key      string
	Name     string
	Size     int64
	MimeType string
	AppType  string
}

// storeUpload validates f and writes it below prefix under a unique
// "<unix>-<slug><ext>" name. taken reports names already in use.
func storeUpload(ctx context.Context, st storage.Storage, f FileUpload, prefix string, maxBytes int64,
	now time.Time, taken func(ctx context.Context, name string) (bool, error)) (*storedFile, error) {
	if st == nil {
		return nil, apperr.StorageUnavailable(errors.New("no storage configured"))
	}

	head := make([]byte, upload.SniffLen)
	n, err := io.ReadFull(f.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperr.Internal("Could not read the upload", err)
	}
	original := displayName(f.Filename)
	res, err := upload.Inspect(original, f.Size, maxBytes, head[:n])
	if err != nil {
		return nil, apperr.Field("file", err.Error())
	}
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return nil, apperr.Internal("Could not read the upload", err)
	}

	stored := upload.StoredName(original, now)
	ext := filepath.Ext(stored)
	name, err := slug.Unique(ctx, strings.TrimSuffix(stored, ext), func(ctx context.Context, candidate string) (bool, error) {
		if taken == nil {
			return false, nil
		}
		return taken(ctx, candidate+ext)
	})
	if err != nil {
		return nil, apperr.Internal("", err)
	}
	name += ext

	key := storage.ObjectKey(prefix, name)
	if err := st.Put(ctx, key, f.Content, f.Size, res.MimeType); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return &storedFile{Key: key, Name: name, Size: f.Size, MimeType: res.MimeType, AppType: res.AppType}, nil
}
