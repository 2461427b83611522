package forms

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

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).First(&form, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// FindByCategory returns the form whose category matches exactly, or
// gorm.ErrRecordNotFound.
func (r *Repository) FindByCategory(ctx context.Context, category string) (*models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).First(&form, "category = ?", category).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *Repository) Create(ctx context.Context, form *models.Form) (*models.Form, error) {
	if err := r.db.WithContext(ctx).Create(form).Error; err != nil {
		return nil, err
	}
	return form, nil
}

func (r *Repository) Save(ctx context.Context, form *models.Form) (*models.Form, error) {
	if err := r.db.WithContext(ctx).Save(form).Error; err != nil {
		return nil, err
	}
	return form, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Form{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
