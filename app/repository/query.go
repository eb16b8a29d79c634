package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// searchScope ORs a case-insensitive substring match over columns.
// An empty term leaves the query untouched.
func searchScope(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// listPage counts the filtered rows and fetches one page of them. A page past
// the end yields an empty slice and the real total.
func listPage[T any](ctx context.Context, db *gorm.DB, q content.ListQuery, order string, scopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	query := func() *gorm.DB {
		return db.WithContext(ctx).Model(new(T)).Scopes(scopes...)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0)
	if total == 0 || int64(q.Offset()) >= total {
		return items, total, nil
	}
	if err := query().Order(order).Offset(q.Offset()).Limit(q.PerPage).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// crud implements CRUD over a gorm model.
type crud[T any] struct {
	db *gorm.DB
}

func (r crud[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r crud[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r crud[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes the row and reports gorm.ErrRecordNotFound when nothing matched.
func (r crud[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// existsExcept counts rows where column = value, ignoring exceptID when non-zero.
func existsExcept[T any](ctx context.Context, db *gorm.DB, column, value string, exceptID uint) (bool, error) {
	var count int64
	q := db.WithContext(ctx).Model(new(T)).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
