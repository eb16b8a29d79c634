package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
)

// DefaultInvalidatePages is how many leading list pages a write evicts.
const DefaultInvalidatePages = 10

// Cache is the read-through overlay over the store. It never decides what is
// true: misses, decode failures and an unreachable cache all fall through to
// the loader.
type Cache struct {
	store cache.Store
	ttl   time.Duration
	pages int
}

func NewCache(store cache.Store, ttl time.Duration, invalidatePages int) *Cache {
	if invalidatePages < 1 {
		invalidatePages = DefaultInvalidatePages
	}
	return &Cache{store: store, ttl: ttl, pages: invalidatePages}
}

// TTL is the configured time-to-live of every entry.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// ListKey is the cache key of one listing page.
func ListKey(entity Entity, q ListQuery) string {
	return cache.Key(string(entity), "list", q.Params())
}

// ItemKey is the cache key of one item by id or slug.
func ItemKey(entity Entity, key interface{}) string {
	return cache.Key(string(entity), "item", map[string]string{"key": fmt.Sprint(key)})
}

// Remember returns the cached value for key, or calls load, caches its result
// for the TTL and returns it. Load errors are never cached.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if c != nil && c.store != nil {
		raw, err := c.store.Get(ctx, key)
		switch {
		case err == nil:
			var cached T
			decodeErr := json.Unmarshal(raw, &cached)
			if decodeErr == nil {
				return cached, nil
			}
			log.Warnf("[ContentCache] dropping undecodable entry %s: %v", key, decodeErr)
		case !errors.Is(err, cache.ErrMiss):
			log.Warnf("[ContentCache] read %s failed, querying store: %v", key, err)
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if c != nil && c.store != nil {
		raw, encodeErr := json.Marshal(value)
		if encodeErr != nil {
			log.Warnf("[ContentCache] cannot encode %s: %v", key, encodeErr)
			return value, nil
		}
		if setErr := c.store.Set(ctx, key, raw, c.ttl); setErr != nil {
			log.Warnf("[ContentCache] write %s failed: %v", key, setErr)
		}
	}
	return value, nil
}

// Invalidation describes what a write affects.
type Invalidation struct {
	Entity  Entity
	PerPage int
	// Scopes are the list scopes whose leading pages are evicted.
	Scopes []string
	// Items are ids or slugs whose single-item entries are evicted.
	Items []interface{}
	// Extra are fully built keys evicted as-is.
	Extra []string
}

// Keys enumerates every key the invalidation evicts: the item entries plus
// pages 1..N of each scope under the empty filter. Lists cached under other
// filters or deeper pages expire with the TTL.
func (c *Cache) Keys(inv Invalidation) []string {
	keys := make([]string, 0, len(inv.Items)+len(inv.Scopes)*c.pages+len(inv.Extra))
	for _, item := range inv.Items {
		keys = append(keys, ItemKey(inv.Entity, item))
	}
	for _, scope := range inv.Scopes {
		for page := 1; page <= c.pages; page++ {
			q := ListQuery{Page: page, PerPage: inv.PerPage, Scope: scope}.Normalize(inv.PerPage)
			keys = append(keys, ListKey(inv.Entity, q))
		}
	}
	return append(keys, inv.Extra...)
}

// Invalidate evicts the keys of inv. Failures are logged, not returned: the
// TTL still bounds how long anything stays stale.
func (c *Cache) Invalidate(ctx context.Context, inv Invalidation) {
	if c == nil || c.store == nil {
		return
	}
	if err := c.store.Forget(ctx, c.Keys(inv)...); err != nil {
		log.Warnf("[ContentCache] invalidating %s failed: %v", inv.Entity, err)
	}
}

// Flush drops every content entry.
func (c *Cache) Flush(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.FlushAll(ctx)
}
