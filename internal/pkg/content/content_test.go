package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (failingStore) Forget(context.Context, ...string) error { return errors.New("connection refused") }
func (failingStore) FlushAll(context.Context) error         { return errors.New("connection refused") }

func TestNormalizeCanonicalizesFilters(t *testing.T) {
	a := ListQuery{Search: "  Recovery   Stories ", Page: 0}.Normalize(20)
	b := ListQuery{Search: "recovery stories", Page: 1, PerPage: 20, Scope: ScopePublic}.Normalize(20)

	assert.Equal(t, a, b)
	assert.Equal(t, ListKey(EntityStory, a), ListKey(EntityStory, b))

	none := ListQuery{}.Normalize(20)
	empty := ListQuery{Search: "   "}.Normalize(20)
	assert.Equal(t, ListKey(EntityStory, none), ListKey(EntityStory, empty))
}

func TestNormalizeFixesPaging(t *testing.T) {
	q := ListQuery{Page: -3, PerPage: 5000}.Normalize(15)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 15, q.PerPage)
	assert.Equal(t, 0, q.Offset())

	custom := ListQuery{Page: 1, PerPage: 5}.Normalize(15)
	assert.Equal(t, ListKey(EntityFAQ, ListQuery{}.Normalize(15)), ListKey(EntityFAQ, custom))

	q = ListQuery{Page: 3}.Normalize(15)
	assert.Equal(t, 15, q.PerPage)
	assert.Equal(t, 30, q.Offset())
}

func TestOnlyDropsUnsupportedFilters(t *testing.T) {
	q := ListQuery{Search: "Coffee", Category: "News", Status: "new"}

	assert.Equal(t, ListQuery{Search: "Coffee"}, q.Only(FilterSearch))
	assert.Equal(t, ListQuery{Search: "Coffee", Category: "News"}, q.Only(FilterSearch|FilterCategory))
	assert.Equal(t, ListQuery{Search: "Coffee", Status: "new"}, q.Only(FilterSearch|FilterStatus))

	plain := ListKey(EntityFAQ, ListQuery{}.Normalize(20))
	assert.Equal(t, plain, ListKey(EntityFAQ, ListQuery{Category: "x", Status: "y"}.Only(FilterSearch).Normalize(20)))
}

func TestNewPageMetadata(t *testing.T) {
	p := NewPage([]int{21, 22, 23}, 23, 2, 20)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 2, p.LastPage)
	assert.Equal(t, 21, p.From)
	assert.Equal(t, 23, p.To)

	beyond := NewPage[int](nil, 23, 9, 20)
	assert.NotNil(t, beyond.Data)
	assert.Empty(t, beyond.Data)
	assert.Equal(t, 2, beyond.LastPage)
	assert.Equal(t, int64(23), beyond.Total)
	assert.Zero(t, beyond.From)
	assert.Zero(t, beyond.To)

	empty := NewPage[int](nil, 0, 1, 20)
	assert.Equal(t, 1, empty.LastPage)
}

func TestRememberReadsThrough(t *testing.T) {
	ctx := context.Background()
	c := NewCache(cache.NewMemoryStore(), time.Minute, 10)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, err := Remember(ctx, c, "k", load)
	require.NoError(t, err)
	second, err := Remember(ctx, c, "k", load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := NewCache(cache.NewMemoryStore(), time.Minute, 10)
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("not yet")
		}
		return 7, nil
	}

	_, err := Remember(ctx, c, "k", load)
	require.Error(t, err)
	v, err := Remember(ctx, c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestRememberFallsBackWhenCacheIsDown(t *testing.T) {
	ctx := context.Background()
	c := NewCache(failingStore{}, time.Minute, 10)

	v, err := Remember(ctx, c, "k", func(context.Context) (string, error) { return "from-store", nil })
	require.NoError(t, err)
	assert.Equal(t, "from-store", v)

	assert.NotPanics(t, func() {
		c.Invalidate(ctx, Invalidation{Entity: EntityFAQ, PerPage: 20, Scopes: []string{ScopePublic}})
	})
}

func TestInvalidateEvictsEnumeratedPagesOnly(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	c := NewCache(store, time.Hour, 10)

	page3 := ListKey(EntityFAQ, ListQuery{Page: 3}.Normalize(20))
	page11 := ListKey(EntityFAQ, ListQuery{Page: 11}.Normalize(20))
	filtered := ListKey(EntityFAQ, ListQuery{Page: 1, Search: "meeting"}.Normalize(20))
	item := ItemKey(EntityFAQ, 4)
	for _, k := range []string{page3, page11, filtered, item} {
		require.NoError(t, store.Set(ctx, k, []byte("[]"), time.Hour))
	}

	c.Invalidate(ctx, Invalidation{Entity: EntityFAQ, PerPage: 20, Scopes: []string{ScopePublic}, Items: []interface{}{4}})

	for _, k := range []string{page3, item} {
		_, err := store.Get(ctx, k)
		assert.ErrorIs(t, err, cache.ErrMiss, k)
	}
	for _, k := range []string{page11, filtered} {
		_, err := store.Get(ctx, k)
		assert.NoError(t, err, k)
	}
}

func TestKeysCoverEveryScope(t *testing.T) {
	c := NewCache(cache.NewMemoryStore(), time.Hour, 4)
	keys := c.Keys(Invalidation{
		Entity:  EntityStory,
		PerPage: 12,
		Scopes:  []string{ScopePublic, ScopeAdmin},
		Items:   []interface{}{1, "hello-world"},
		Extra:   []string{"custom"},
	})
	assert.Len(t, keys, 2+2*4+1)
	assert.Contains(t, keys, ListKey(EntityStory, ListQuery{Page: 4, Scope: ScopeAdmin}.Normalize(12)))
	assert.Contains(t, keys, ItemKey(EntityStory, "hello-world"))
}
