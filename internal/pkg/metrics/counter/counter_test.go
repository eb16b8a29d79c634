package counter

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter(t *testing.T) (*ViewCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewViewCounter(client), mr
}

func TestFlushDrainsCounts(t *testing.T) {
	ctx := context.Background()
	vc, mr := newCounter(t)

	require.NoError(t, vc.Add(ctx, 1))
	require.NoError(t, vc.Add(ctx, 1))
	require.NoError(t, vc.Add(ctx, 7))

	var got map[uint]int64
	require.NoError(t, vc.Flush(ctx, func(_ context.Context, counts map[uint]int64) error {
		got = counts
		return nil
	}))
	assert.Equal(t, map[uint]int64{1: 2, 7: 1}, got)
	assert.False(t, mr.Exists(storyViewsKey))

	called := false
	require.NoError(t, vc.Flush(ctx, func(context.Context, map[uint]int64) error {
		called = true
		return nil
	}))
	assert.False(t, called, "nothing pending")
}

func TestFlushRestoresOnSinkFailure(t *testing.T) {
	ctx := context.Background()
	vc, mr := newCounter(t)

	require.NoError(t, vc.Add(ctx, 3))
	err := vc.Flush(ctx, func(context.Context, map[uint]int64) error {
		return errors.New("database down")
	})
	require.Error(t, err)
	assert.Equal(t, "1", mr.HGet(storyViewsKey, "3"))
}
