package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	crud[models.Event]
}

// NewEventRepository creates a new event repository instance
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{crud[models.Event]{db: db}}
}

func (r *eventRepository) List(ctx context.Context, q content.ListQuery) ([]models.Event, int64, error) {
	return listPage[models.Event](ctx, r.db, q, "created_at DESC, id DESC",
		searchScope(q.Search, "title", "description", "location"))
}
