package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageLifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key := ObjectKey(DocumentsPrefix, "1700000000-minutes.pdf")
	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, key, bytes.NewBufferString("%PDF-1.4"), 8, "application/pdf"))

	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	obj, err := s.Get(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, obj.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))
	assert.Equal(t, int64(8), obj.Size)
	assert.Equal(t, "application/pdf", obj.ContentType)

	copyKey := ObjectKey(EventsPrefix, "copy.pdf")
	require.NoError(t, s.Copy(ctx, key, copyKey))
	ok, err = s.Exists(ctx, copyKey)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting twice is fine")
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "../../escape.txt", bytes.NewBufferString("x"), 1, "text/plain"))
	ok, err := s.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "traversal is folded into the root")

	_, err = s.Get(ctx, "")
	assert.Error(t, err)
}

func TestCleanKey(t *testing.T) {
	cases := map[string]string{
		"documents/a.pdf":      "documents/a.pdf",
		"/documents//a.pdf":    "documents/a.pdf",
		"documents/../a.pdf":   "a.pdf",
		`documents\nested.pdf`: "documents/nested.pdf",
	}
	for in, want := range cases {
		got, err := cleanKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := cleanKey("/")
	assert.Error(t, err)
}
