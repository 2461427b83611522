package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/internal/customfields"
	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
)

// FormDraft is the admin submission for a form. FieldIDs reference live
// registry entries; the form stores a snapshot of each in submission order.
type FormDraft struct {
	Category string      `json:"category" validate:"required"`
	Name     string      `json:"name" validate:"required"`
	Type     string      `json:"type" validate:"required"`
	FieldIDs []uuid.UUID `json:"fieldIds"`
}

// Service is the registry of category-scoped product forms.
type Service interface {
	Create(ctx context.Context, draft FormDraft) (*models.Form, error)
	Update(ctx context.Context, id uuid.UUID, draft FormDraft) (*models.Form, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Form, error)
	FindByCategory(ctx context.Context, category string) (*models.Form, error)
	List(ctx context.Context) ([]models.Form, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   *Repository
	fields *customfields.Repository
	logg   *logger.Logger
}

// NewService constructs the form registry.
func NewService(repo *Repository, fields *customfields.Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("form repository required")
	}
	if fields == nil {
		return nil, fmt.Errorf("custom field repository required")
	}
	return &service{repo: repo, fields: fields, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, draft FormDraft) (*models.Form, error) {
	form, err := s.buildForm(ctx, &models.Form{}, draft)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(ctx, form); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create form")
	}
	return form, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, draft FormDraft) (*models.Form, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form, err := s.buildForm(ctx, existing, draft)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Save(ctx, form); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update form")
	}
	return form, nil
}

// buildForm applies the draft onto the form, re-snapshotting the referenced
// fields from the live registry. The snapshot drifts afterwards; that is the
// point of snapshotting.
func (s *service) buildForm(ctx context.Context, form *models.Form, draft FormDraft) (*models.Form, error) {
	category := strings.TrimSpace(draft.Category)
	name := strings.TrimSpace(draft.Name)
	formType := strings.TrimSpace(draft.Type)
	if category == "" || name == "" || formType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "form category, name and type are required")
	}

	snapshot := make([]models.FormField, 0, len(draft.FieldIDs))
	for position, fieldID := range draft.FieldIDs {
		field, err := s.fields.FindByID(ctx, fieldID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("unknown custom field %s", fieldID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load field for snapshot")
		}
		snapshot = append(snapshot, models.FormField{
			FieldID:   field.ID,
			Label:     field.Label,
			FieldType: field.FieldType,
			Options:   append([]string(nil), field.Options...),
			Prefix:    field.Prefix,
			Suffix:    field.Suffix,
			Order:     position,
		})
	}

	form.Category = category
	form.Name = name
	form.Type = formType
	form.Fields = datatypes.NewJSONType(snapshot)
	return form, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Form, error) {
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "form not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load form")
	}
	return form, nil
}

func (s *service) FindByCategory(ctx context.Context, category string) (*models.Form, error) {
	form, err := s.repo.FindByCategory(ctx, strings.TrimSpace(category))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no form for category")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find form by category")
	}
	return form, nil
}

func (s *service) List(ctx context.Context) ([]models.Form, error) {
	forms, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list forms")
	}
	return forms, nil
}

// Delete removes the form only. Products keep their dangling form_id and
// readers fall back to the product's own stored fields.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "form not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete form")
	}
	return nil
}
