package customfields

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomField, error) {
	var field models.CustomField
	if err := r.db.WithContext(ctx).First(&field, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

// List returns all fields in display order, oldest first on ties.
func (r *Repository) List(ctx context.Context) ([]models.CustomField, error) {
	var fields []models.CustomField
	err := r.db.WithContext(ctx).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// MaxOrder returns the highest display order in the registry, -1 when empty.
func (r *Repository) MaxOrder(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.CustomField{}).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *Repository) Create(ctx context.Context, field *models.CustomField) (*models.CustomField, error) {
	if err := r.db.WithContext(ctx).Create(field).Error; err != nil {
		return nil, err
	}
	return field, nil
}

func (r *Repository) Save(ctx context.Context, field *models.CustomField) (*models.CustomField, error) {
	if err := r.db.WithContext(ctx).Save(field).Error; err != nil {
		return nil, err
	}
	return field, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomField{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
