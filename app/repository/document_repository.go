package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

// documentRepository implements the DocumentRepository interface
type documentRepository struct {
	crud[models.Document]
}

// NewDocumentRepository creates a new document repository instance
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{crud[models.Document]{db: db}}
}

// List orders documents alphabetically by their display name.
func (r *documentRepository) List(ctx context.Context, q content.ListQuery) ([]models.Document, int64, error) {
	scopes := []func(*gorm.DB) *gorm.DB{searchScope(q.Search, "original_file_name")}
	if q.Scope != content.ScopeAdmin {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("app_type = ? AND is_public = ?", models.AppTypeFile, true)
		})
	}
	return listPage[models.Document](ctx, r.db, q, "original_file_name ASC, id ASC", scopes...)
}

func (r *documentRepository) FileNameExists(ctx context.Context, fileName string) (bool, error) {
	return existsExcept[models.Document](ctx, r.db, "file_name", fileName, 0)
}
