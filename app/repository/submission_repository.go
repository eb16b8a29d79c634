package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

type submissionRepository struct {
	crud[models.StorySubmission]
}

// NewSubmissionRepository creates a new story submission repository instance
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{crud[models.StorySubmission]{db: db}}
}

func (r *submissionRepository) List(ctx context.Context, q content.ListQuery) ([]models.StorySubmission, int64, error) {
	scopes := []func(*gorm.DB) *gorm.DB{searchScope(q.Search, "title", "content", "author")}
	if q.Status != "" {
		status := q.Status
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}
	return listPage[models.StorySubmission](ctx, r.db, q, "created_at DESC, id DESC", scopes...)
}
