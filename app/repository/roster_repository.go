package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

type rosterRepository struct {
	crud[models.Roster]
}

// NewRosterRepository creates a new roster repository instance
func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{crud[models.Roster]{db: db}}
}

func (r *rosterRepository) List(ctx context.Context, q content.ListQuery) ([]models.Roster, int64, error) {
	return listPage[models.Roster](ctx, r.db, q, "sort_order ASC, name ASC, id ASC",
		searchScope(q.Search, "name", "title"))
}
