package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	crud[models.User]
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{crud[models.User]{db: db}}
}

// GetByLogin retrieves a user by username or email address
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = ?", login, strings.ToLower(login)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPasswordSetupToken retrieves a user by the token from the welcome mail
func (r *userRepository) GetByPasswordSetupToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.WithContext(ctx).Where("password_setup_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, q content.ListQuery) ([]models.User, int64, error) {
	return listPage[models.User](ctx, r.db, q, "created_at DESC, id DESC",
		searchScope(q.Search, "username", "email", "first_name", "last_name"))
}

func (r *userRepository) UsernameExists(ctx context.Context, username string, exceptID uint) (bool, error) {
	return existsExcept[models.User](ctx, r.db, "username", username, exceptID)
}

func (r *userRepository) EmailExists(ctx context.Context, email string, exceptID uint) (bool, error) {
	return existsExcept[models.User](ctx, r.db, "LOWER(email)", strings.ToLower(email), exceptID)
}
