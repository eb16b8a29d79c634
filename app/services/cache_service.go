package services

import (
	"context"
	"errors"
	"time"

	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

// CacheEntities are the content types with their own key namespace.
var CacheEntities = []content.Entity{
	content.EntityStory,
	content.EntityEvent,
	content.EntityFAQ,
	content.EntityDocument,
	content.EntityRoster,
	content.EntityContact,
	content.EntitySubmission,
	content.EntitySetting,
	content.EntityUser,
	content.EntityMeeting,
}

// EntityCacheStats summarizes the cached keys of one entity.
type EntityCacheStats struct {
	Entity content.Entity `json:"entity"`
	Keys   int            `json:"keys"`
	// MaxTTL is the longest remaining lifetime among the keys.
	MaxTTL time.Duration `json:"max_ttl"`
}

type CacheService struct {
	cache *content.Cache
	repo  repository.CacheRepository
}

// Flush drops every cached content entry. Buffered view counts survive.
func (s *CacheService) Flush(ctx context.Context) error {
	if err := s.cache.Flush(ctx); err != nil {
		return apperr.Internal("Could not flush the cache", err)
	}
	return nil
}

// FlushEntity drops the cached entries of one content type and returns how
// many keys were removed.
func (s *CacheService) FlushEntity(ctx context.Context, entity content.Entity) (int64, error) {
	if !knownEntity(entity) {
		return 0, apperr.NotFound("Unknown cache entity")
	}
	keys, err := s.repo.FindKeysByPatterns(ctx, []string{entityPattern(entity)})
	if err != nil {
		return 0, cacheRepoErr(err)
	}
	deleted, err := s.repo.DeleteKeys(ctx, keys)
	if err != nil {
		return deleted, cacheRepoErr(err)
	}
	return deleted, nil
}

// Stats counts cached keys per entity.
func (s *CacheService) Stats(ctx context.Context) ([]EntityCacheStats, error) {
	stats := make([]EntityCacheStats, 0, len(CacheEntities))
	for _, entity := range CacheEntities {
		keys, err := s.repo.FindKeysByPatterns(ctx, []string{entityPattern(entity)})
		if err != nil {
			return nil, cacheRepoErr(err)
		}
		st := EntityCacheStats{Entity: entity, Keys: len(keys)}
		for _, key := range keys {
			ttl, err := s.repo.GetTTL(ctx, key)
			if err != nil {
				return nil, cacheRepoErr(err)
			}
			if ttl > st.MaxTTL {
				st.MaxTTL = ttl
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func entityPattern(entity content.Entity) string {
	return cache.Prefix + string(entity) + ":*"
}

func knownEntity(entity content.Entity) bool {
	for _, e := range CacheEntities {
		if e == entity {
			return true
		}
	}
	return false
}

func cacheRepoErr(err error) error {
	if errors.Is(err, repository.ErrCacheUnavailable) {
		return apperr.Conflict("Cache inspection needs the Redis cache")
	}
	return apperr.Internal("", err)
}
