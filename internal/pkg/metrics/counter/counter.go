// Package counter buffers story view counts in Redis and flushes them to the
// database in batches.
package counter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// Outside the content cache prefix so a cache flush keeps pending counts.
const storyViewsKey = "counters:story:views"

// Sink applies drained increments, keyed by story id.
type Sink func(ctx context.Context, counts map[uint]int64) error

type ViewCounter struct {
	client *redis.Client
	key    string
}

func NewViewCounter(client *redis.Client) *ViewCounter {
	return &ViewCounter{client: client, key: storyViewsKey}
}

// Add increments the pending view counter for a story in Redis
func (v *ViewCounter) Add(ctx context.Context, storyID uint) error {
	field := strconv.FormatUint(uint64(storyID), 10)
	return v.client.HIncrBy(ctx, v.key, field, 1).Err()
}

// Flush drains the hash atomically and hands the increments to sink.
// RENAME to a temporary key keeps increments that arrive meanwhile.
// When sink fails the counts are added back.
func (v *ViewCounter) Flush(ctx context.Context, sink Sink) error {
	tmpKey := fmt.Sprintf("%s:tmp:%d", v.key, time.Now().UnixNano())
	if err := v.client.Rename(ctx, v.key, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") || err == redis.Nil {
			return nil
		}
		return err
	}

	// Ensure cleanup of tmpKey even if later steps fail
	defer v.client.Del(ctx, tmpKey)

	data, err := v.client.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}

	counts := make(map[uint]int64, len(data))
	for k, raw := range data {
		id, perr := strconv.ParseUint(k, 10, 64)
		if perr != nil {
			continue
		}
		inc, ierr := strconv.ParseInt(raw, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		counts[uint(id)] = inc
	}
	if len(counts) == 0 {
		return nil
	}

	if err := sink(ctx, counts); err != nil {
		v.restore(ctx, counts)
		return err
	}
	log.Infof("[ViewCounter] flushed views for %d stories", len(counts))
	return nil
}

func (v *ViewCounter) restore(ctx context.Context, counts map[uint]int64) {
	pipe := v.client.Pipeline()
	for id, inc := range counts {
		pipe.HIncrBy(ctx, v.key, strconv.FormatUint(uint64(id), 10), inc)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Errorf("[ViewCounter] could not restore %d pending counts: %v", len(counts), err)
	}
}
