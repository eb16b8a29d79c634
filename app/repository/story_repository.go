package repository

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

var storySearchColumns = []string{"title", "excerpt", "content", "author"}

// storyRepository implements the StoryRepository interface
type storyRepository struct {
	crud[models.Story]
}

// NewStoryRepository creates a new story repository instance
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{crud[models.Story]{db: db}}
}

// GetBySlug retrieves a story by its slug
func (r *storyRepository) GetBySlug(ctx context.Context, slug string) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&story).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// List returns one page of stories. Public pages only contain published
// stories, newest publication first; admin pages are ordered by creation.
func (r *storyRepository) List(ctx context.Context, q content.ListQuery, now time.Time) ([]models.Story, int64, error) {
	scopes := []func(*gorm.DB) *gorm.DB{searchScope(q.Search, storySearchColumns...)}
	if q.Category != "" {
		category := q.Category
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER(category) = ?", category)
		})
	}

	order := "created_at DESC, id DESC"
	if q.Scope != content.ScopeAdmin {
		scopes = append(scopes, publishedScope(now))
		order = "published_at DESC, id DESC"
	}
	return listPage[models.Story](ctx, r.db, q, order, scopes...)
}

func publishedScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ? AND published_at IS NOT NULL AND published_at <= ?", true, now)
	}
}

// SlugExists checks if a slug is taken by any story other than exceptID
func (r *storyRepository) SlugExists(ctx context.Context, slug string, exceptID uint) (bool, error) {
	return existsExcept[models.Story](ctx, r.db, "slug", slug, exceptID)
}

// CountPublishedBetween counts active stories whose publish time lies in (from, to].
func (r *storyRepository) CountPublishedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("is_active = ? AND published_at > ? AND published_at <= ?", true, from, to).
		Count(&count).Error
	return count, err
}

// AddViews applies buffered view increments in one transaction.
func (r *storyRepository) AddViews(ctx context.Context, counts map[uint]int64) error {
	if len(counts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(counts))
	for id, inc := range counts {
		if inc > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			err := tx.Model(&models.Story{}).Where("id = ?", id).
				UpdateColumn("views", gorm.Expr("views + ?", counts[id])).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
