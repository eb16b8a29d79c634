package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
)

var client *redis.Client

// SetupCache initializes the connection to the Redis cache server
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Warnf("[Cache] Could not connect to cache: %v", err)
	} else {
		log.Infof("[Cache] Successfully connected to cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// DefaultTTL is how long content entries live unless CACHE_TTL says otherwise.
func DefaultTTL() time.Duration {
	return env.GetEnvDuration("CACHE_TTL", time.Hour)
}

// NewStoreFromEnv returns the store selected by CACHE_DRIVER (redis or memory).
func NewStoreFromEnv() Store {
	if env.GetEnv("CACHE_DRIVER", "redis") == "memory" {
		log.Info("[Cache] Using in-process memory store")
		return NewMemoryStore()
	}
	return NewRedisStore(GetClient())
}
