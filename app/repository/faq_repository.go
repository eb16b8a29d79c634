package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

type faqRepository struct {
	crud[models.FAQ]
}

// NewFAQRepository creates a new FAQ repository instance
func NewFAQRepository(db *gorm.DB) FAQRepository {
	return &faqRepository{crud[models.FAQ]{db: db}}
}

func (r *faqRepository) List(ctx context.Context, q content.ListQuery) ([]models.FAQ, int64, error) {
	return listPage[models.FAQ](ctx, r.db, q, "created_at DESC, id DESC",
		searchScope(q.Search, "title", "content"))
}
