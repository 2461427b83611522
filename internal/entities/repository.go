package entities

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
)

// Repository provides persistence for the shared entities table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads one entity of the given kind.
func (r *Repository) FindByID(ctx context.Context, kind enums.EntityKind, id uuid.UUID) (*models.Entity, error) {
	var entity models.Entity
	if err := r.db.WithContext(ctx).First(&entity, "id = ? AND kind = ?", id, kind).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns all entities of the given kind ordered by creation.
func (r *Repository) List(ctx context.Context, kind enums.EntityKind) ([]models.Entity, error) {
	var out []models.Entity
	if err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts the entity.
func (r *Repository) Create(ctx context.Context, entity *models.Entity) (*models.Entity, error) {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

// Save writes the full entity document back.
func (r *Repository) Save(ctx context.Context, entity *models.Entity) (*models.Entity, error) {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

// Delete removes one entity of the given kind.
func (r *Repository) Delete(ctx context.Context, kind enums.EntityKind, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND kind = ?", id, kind).Delete(&models.Entity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
