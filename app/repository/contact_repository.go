package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

type contactRepository struct {
	crud[models.Contact]
}

// NewContactRepository creates a new contact repository instance
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{crud[models.Contact]{db: db}}
}

func (r *contactRepository) List(ctx context.Context, q content.ListQuery) ([]models.Contact, int64, error) {
	return listPage[models.Contact](ctx, r.db, q, "created_at DESC, id DESC",
		searchScope(q.Search, "name", "email", "subject", "message"))
}
