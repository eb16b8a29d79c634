package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
)

// ErrCacheUnavailable is returned when no Redis client is configured.
var ErrCacheUnavailable = errors.New("redis cache not configured")

// cacheRepository implements the CacheRepository interface
type cacheRepository struct {
	client func() *redis.Client
}

// NewCacheRepository creates a repository over the shared cache client
func NewCacheRepository() CacheRepository {
	return &cacheRepository{client: cache.GetClient}
}

// NewCacheRepositoryWithClient binds the repository to a specific client
func NewCacheRepositoryWithClient(client *redis.Client) CacheRepository {
	return &cacheRepository{client: func() *redis.Client { return client }}
}

// FindKeysByPatterns retrieves keys for the provided Redis match patterns using SCAN.
func (r *cacheRepository) FindKeysByPatterns(ctx context.Context, patterns []string) ([]string, error) {
	redisClient := r.client()
	if redisClient == nil {
		return nil, ErrCacheUnavailable
	}

	uniqueKeys := make(map[string]struct{})

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		var cursor uint64
		for {
			keys, nextCursor, err := redisClient.Scan(ctx, cursor, pattern, 500).Result()
			if err != nil {
				return nil, err
			}

			for _, key := range keys {
				uniqueKeys[key] = struct{}{}
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}
	}

	keys := make([]string, 0, len(uniqueKeys))
	for key := range uniqueKeys {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys, nil
}

// GetTTL retrieves the time-to-live for a specific key
func (r *cacheRepository) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	redisClient := r.client()
	if redisClient == nil {
		return -1, ErrCacheUnavailable
	}
	return redisClient.TTL(ctx, key).Result()
}

// DeleteKeys deletes keys in batches and returns the total number of deleted keys.
func (r *cacheRepository) DeleteKeys(ctx context.Context, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	redisClient := r.client()
	if redisClient == nil {
		return 0, ErrCacheUnavailable
	}

	const batchSize = 500
	var totalDeleted int64

	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		deleted, err := redisClient.Del(ctx, keys[i:end]...).Result()
		if err != nil {
			return totalDeleted, err
		}
		totalDeleted += deleted
	}

	return totalDeleted, nil
}
