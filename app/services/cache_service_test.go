package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

func redisCacheService(t *testing.T) (*CacheService, *content.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := content.NewCache(cache.NewRedisStore(client), time.Hour, 3)
	return &CacheService{cache: c, repo: repository.NewCacheRepositoryWithClient(client)}, c, mr
}

func remember(t *testing.T, c *content.Cache, key string) {
	t.Helper()
	_, err := content.Remember(context.Background(), c, key, func(context.Context) (string, error) { return "v", nil })
	require.NoError(t, err)
}

func TestCacheStatsAndFlushEntity(t *testing.T) {
	svc, c, mr := redisCacheService(t)
	ctx := context.Background()

	remember(t, c, content.ListKey(content.EntityStory, content.ListQuery{}.Normalize(StoriesPerPage)))
	remember(t, c, content.ItemKey(content.EntityStory, 1))
	remember(t, c, content.ItemKey(content.EntityFAQ, 4))
	require.NoError(t, mr.Set("counters:story:views", "x"))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	byEntity := map[content.Entity]EntityCacheStats{}
	for _, st := range stats {
		byEntity[st.Entity] = st
	}
	assert.Equal(t, 2, byEntity[content.EntityStory].Keys)
	assert.Equal(t, 1, byEntity[content.EntityFAQ].Keys)
	assert.Equal(t, 0, byEntity[content.EntityEvent].Keys)
	assert.Equal(t, time.Hour, byEntity[content.EntityFAQ].MaxTTL)

	deleted, err := svc.FlushEntity(ctx, content.EntityStory)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.True(t, mr.Exists(content.ItemKey(content.EntityFAQ, 4)))

	require.NoError(t, svc.Flush(ctx))
	assert.False(t, mr.Exists(content.ItemKey(content.EntityFAQ, 4)))
	assert.True(t, mr.Exists("counters:story:views"))
}

func TestCacheFlushUnknownEntity(t *testing.T) {
	svc, _, _ := redisCacheService(t)

	_, err := svc.FlushEntity(context.Background(), content.Entity("album"))
	assert.True(t, apperr.IsNotFound(err))
}
