package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get reads the settings row by its fixed id
func (r *settingRepository) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).First(&setting, models.SettingID).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// Save writes the settings row; the id is always forced to the singleton id
func (r *settingRepository) Save(ctx context.Context, setting *models.Setting) error {
	setting.ID = models.SettingID
	return r.db.WithContext(ctx).Save(setting).Error
}

func (r *settingRepository) EnsureDefaults(ctx context.Context) (*models.Setting, error) {
	existing, err := r.Get(ctx)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	setting := models.DefaultSetting()
	if err := r.db.WithContext(ctx).Create(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}
