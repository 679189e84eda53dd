package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/luxurystrandhaven/storefront-backend/pkg/db/models"
)

// Repository reads and writes site_settings rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListSettings returns every stored setting ordered by key.
func (r *Repository) ListSettings(ctx context.Context) ([]models.SiteSetting, error) {
	var rows []models.SiteSetting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes a single setting.
func (r *Repository) Upsert(ctx context.Context, key, value string) error {
	row := models.SiteSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).Save(&row).Error
}
