package customfields

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

// FieldDraft is the admin submission for creating or updating a field. A
// nil ID creates; a set ID updates in place.
type FieldDraft struct {
	ID        *uuid.UUID `json:"id"`
	Label     string     `json:"label" validate:"required"`
	FieldType string     `json:"fieldType" validate:"required"`
	Options   []string   `json:"options"`
	Prefix    *string    `json:"prefix"`
	Suffix    *string    `json:"suffix"`
}

// ReorderReport summarizes a batch order rewrite. Items that fail are
// reported and skipped; successful writes are never rolled back.
type ReorderReport struct {
	Total   int      `json:"total"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// Service is the registry of admin-defined catalog fields.
type Service interface {
	Save(ctx context.Context, draft FieldDraft) (*models.CustomField, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CustomField, error)
	List(ctx context.Context) ([]models.CustomField, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReorderFields(ctx context.Context, orderedIDs []uuid.UUID) (*ReorderReport, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs the field registry.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("custom field repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Save creates the field when the draft carries no id, otherwise rewrites
// the stored field. New fields append to the end of the display order.
func (s *service) Save(ctx context.Context, draft FieldDraft) (*models.CustomField, error) {
	fieldType, err := enums.ParseFieldType(strings.TrimSpace(draft.FieldType))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	label := strings.TrimSpace(draft.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "field label is required")
	}
	options, err := normalizeOptions(fieldType, draft.Options)
	if err != nil {
		return nil, err
	}

	var field *models.CustomField
	if draft.ID != nil {
		field, err = s.Get(ctx, *draft.ID)
		if err != nil {
			return nil, err
		}
	} else {
		maxOrder, err := s.repo.MaxOrder(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: max field order")
		}
		field = &models.CustomField{Order: maxOrder + 1}
	}

	field.Label = label
	field.FieldType = fieldType
	field.Options = options
	if fieldType.AllowsAffixes() {
		field.Prefix = trimAffix(draft.Prefix)
		field.Suffix = trimAffix(draft.Suffix)
	} else {
		field.Prefix = nil
		field.Suffix = nil
	}

	if draft.ID == nil {
		if _, err := s.repo.Create(ctx, field); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create field")
		}
		return field, nil
	}
	if _, err := s.repo.Save(ctx, field); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update field")
	}
	return field, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.CustomField, error) {
	field, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "custom field not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load field")
	}
	return field, nil
}

func (s *service) List(ctx context.Context) ([]models.CustomField, error) {
	fields, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list fields")
	}
	return fields, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "custom field not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete field")
	}
	return nil
}

// ReorderFields rewrites each field's order to its index in orderedIDs.
// Items are written independently; a failed item is recorded in the report
// and the sweep continues. Fields missing from orderedIDs keep their order.
func (s *service) ReorderFields(ctx context.Context, orderedIDs []uuid.UUID) (*ReorderReport, error) {
	report := &ReorderReport{Total: len(orderedIDs)}
	var batchErr error
	for position, id := range orderedIDs {
		field, err := s.repo.FindByID(ctx, id)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", id, err))
			batchErr = multierr.Append(batchErr, fmt.Errorf("field %s: %w", id, err))
			continue
		}
		if field.Order == position {
			continue
		}
		field.Order = position
		if _, err := s.repo.Save(ctx, field); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", id, err))
			batchErr = multierr.Append(batchErr, fmt.Errorf("field %s: %w", id, err))
			continue
		}
		report.Updated++
	}
	if batchErr != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("field reorder finished with %d errors", len(report.Errors)))
	}
	return report, nil
}

// normalizeOptions trims and validates the option list for the field type.
// Types without options always store an empty list regardless of input.
func normalizeOptions(fieldType enums.FieldType, raw []string) ([]string, error) {
	if !fieldType.RequiresOptions() {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(raw))
	options := make([]string, 0, len(raw))
	for _, option := range raw {
		trimmed := strings.TrimSpace(option)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s field options must not be blank", fieldType))
		}
		if _, dup := seen[trimmed]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s field options must be unique: %q repeats", fieldType, trimmed))
		}
		seen[trimmed] = struct{}{}
		options = append(options, trimmed)
	}
	if len(options) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s fields require at least one option", fieldType))
	}
	return options, nil
}

func trimAffix(affix *string) *string {
	if affix == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*affix)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// DefaultValue returns the value a field holds the moment it is selected:
// an empty list for multi-valued types, an empty scalar otherwise.
func DefaultValue(fieldType enums.FieldType) types.FieldValue {
	if fieldType.Multivalued() {
		return types.ListValue()
	}
	return types.ScalarValue("")
}

// ValidateValue checks a submitted value against the field's type contract:
// shape (list vs scalar), option membership for option-backed types, and
// numeric parse for number fields. Empty values always pass; clearing a
// field is not an error.
func ValidateValue(field *models.CustomField, value types.FieldValue) error {
	if value.IsZero() {
		return nil
	}
	if field.FieldType.Multivalued() != value.IsList() {
		shape := "a single value"
		if field.FieldType.Multivalued() {
			shape = "a list of values"
		}
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("field %q expects %s", field.Label, shape))
	}

	switch field.FieldType {
	case enums.FieldTypeNumber:
		if _, err := decimal.NewFromString(strings.TrimSpace(value.Scalar())); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("field %q expects a numeric value", field.Label))
		}
	case enums.FieldTypeDropdown, enums.FieldTypeRadio:
		if !optionAllowed(field.Options, value.Scalar()) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("field %q does not offer option %q", field.Label, value.Scalar()))
		}
	case enums.FieldTypeCheckbox:
		for _, item := range value.List() {
			if !optionAllowed(field.Options, item) {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("field %q does not offer option %q", field.Label, item))
			}
		}
	case enums.FieldTypeText, enums.FieldTypeDate, enums.FieldTypeURL, enums.FieldTypeFile, enums.FieldTypeMultiselect:
		// free-form values, nothing to check beyond shape
	}
	return nil
}

func optionAllowed(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
