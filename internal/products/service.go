package products

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/internal/customfields"
	"github.com/sitecrm/sitecrm-backend/internal/forms"
	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
	"github.com/sitecrm/sitecrm-backend/pkg/metrics"
)

// ProductInput is the submitted product: core fields plus the custom
// values keyed by registry field id.
type ProductInput struct {
	Category   string                   `json:"category" validate:"required"`
	Name       string                   `json:"name" validate:"required"`
	Type       string                   `json:"type" validate:"required"`
	Suppliers  []uuid.UUID              `json:"suppliers"`
	CustomData []models.FieldValueEntry `json:"customData"`
}

// CreateResult carries the persisted product together with the selection
// the entry screen should reset to for the next product of that category.
type CreateResult struct {
	Product *models.Product `json:"product"`
	Seed    []SelectionItem `json:"seed"`
}

// Service assembles and stores catalog products.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput) (*CreateResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SeedSelection(ctx context.Context, category string) ([]SelectionItem, error)
	ReorderAllProducts(ctx context.Context) (*SweepReport, error)
}

type service struct {
	repo   *Repository
	forms  *forms.Repository
	fields *customfields.Repository
	logg   *logger.Logger
	sweeps *metrics.SweepMetrics
}

// NewService constructs the product assembler. Metrics may be nil.
func NewService(repo *Repository, formRepo *forms.Repository, fieldRepo *customfields.Repository, logg *logger.Logger, sweeps *metrics.SweepMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if formRepo == nil {
		return nil, fmt.Errorf("form repository required")
	}
	if fieldRepo == nil {
		return nil, fmt.Errorf("custom field repository required")
	}
	return &service{repo: repo, forms: formRepo, fields: fieldRepo, logg: logg, sweeps: sweeps}, nil
}

// CreateProduct runs the save protocol: validate the core fields, drive
// the submitted values through the selection state machine, resolve or
// refresh the category's form, re-fetch it as the authority on field
// order, persist the product with its custom values in that order, and
// return the seed selection for the next entry.
//
// Resolve-or-create is a read-modify-write; two first products of a brand
// new category saved at the same instant can each create a form. The
// second form is unreachable by category lookup and harmless.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*CreateResult, error) {
	category, name, productType, err := coreFields(input)
	if err != nil {
		return nil, err
	}
	registry, index, err := s.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	assembler := NewAssembler(registry)
	for _, entry := range input.CustomData {
		if _, ok := index[entry.FieldID]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown custom field %s", entry.FieldID))
		}
		key := entry.FieldID.String()
		if entry.Value.IsZero() {
			// a blank submission returns the field to the available pool
			if err := assembler.Deselect(key); err != nil {
				return nil, err
			}
			continue
		}
		if err := assembler.Select(key); err != nil {
			return nil, err
		}
		if err := assembler.SetValue(key, entry.Value); err != nil {
			return nil, err
		}
	}
	entries := assembler.CustomData()

	form, err := s.resolveOrCreateForm(ctx, category, productType, entries, registry)
	if err != nil {
		return nil, err
	}
	// re-fetch so ids and order come from what actually persisted
	form, err = s.forms.FindByID(ctx, form.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload form")
	}

	sortEntries(entries, orderIndex(registry, form))

	product := &models.Product{
		Category:   category,
		Name:       name,
		Type:       productType,
		FormID:     &form.ID,
		Suppliers:  append([]uuid.UUID(nil), input.Suppliers...),
		CustomData: datatypes.NewJSONType(entries),
	}
	if _, err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create product")
	}

	seed := NewAssembler(registry)
	seed.ApplyForm(form)
	return &CreateResult{Product: product, Seed: seed.Items()}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return products, nil
}

// Update rewrites the product's core fields and custom values. The form
// binding is left alone; category edits do not re-run the form protocol.
func (s *service) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	category, name, productType, err := coreFields(input)
	if err != nil {
		return nil, err
	}
	registry, index, err := s.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := validateEntries(input.CustomData, index)
	if err != nil {
		return nil, err
	}

	var form *models.Form
	if product.FormID != nil {
		form, err = s.forms.FindByID(ctx, *product.FormID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load form")
		}
	}
	sortEntries(entries, orderIndex(registry, form))

	product.Category = category
	product.Name = name
	product.Type = productType
	product.Suppliers = append([]uuid.UUID(nil), input.Suppliers...)
	product.CustomData = datatypes.NewJSONType(entries)
	if _, err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// SeedSelection builds the entry screen selection for a category: form
// seeded when the category has a form, plain registry otherwise.
func (s *service) SeedSelection(ctx context.Context, category string) ([]SelectionItem, error) {
	registry, err := s.fields.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list fields")
	}
	assembler := NewAssembler(registry)

	category = strings.TrimSpace(category)
	if category != "" {
		form, err := s.forms.FindByCategory(ctx, category)
		if err == nil {
			assembler.ApplyForm(form)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find form by category")
		}
	}
	return assembler.Items(), nil
}

// resolveOrCreateForm finds the category's form and rewrites its snapshot
// to the fields this product used, or creates the form when the category
// is new. The rewrite is what lets a category's form learn fields added
// after its first product.
func (s *service) resolveOrCreateForm(ctx context.Context, category, productType string, entries []models.FieldValueEntry, registry []models.CustomField) (*models.Form, error) {
	form, err := s.forms.FindByCategory(ctx, category)
	if err == nil {
		form.Fields = datatypes.NewJSONType(refreshSnapshot(form.Fields.Data(), entries, registry))
		if _, err := s.forms.Save(ctx, form); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update form")
		}
		return form, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find form by category")
	}

	form = &models.Form{
		Category: category,
		Name:     fmt.Sprintf("%s form", category),
		Type:     productType,
		Fields:   datatypes.NewJSONType(refreshSnapshot(nil, entries, registry)),
	}
	if _, err := s.forms.Create(ctx, form); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create form")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "category", category), "created form for new category")
	}
	return form, nil
}

// refreshSnapshot rebuilds a form snapshot around the fields the product
// used. Fields the form already tracks keep their relative position, fields
// it has not seen before append in registry order, and every descriptor is
// re-read from the live registry so label and option edits propagate.
func refreshSnapshot(previous []models.FormField, entries []models.FieldValueEntry, registry []models.CustomField) []models.FormField {
	used := make(map[uuid.UUID]struct{}, len(entries))
	for _, entry := range entries {
		used[entry.FieldID] = struct{}{}
	}
	index := make(map[uuid.UUID]models.CustomField, len(registry))
	for _, field := range registry {
		index[field.ID] = field
	}

	prior := append([]models.FormField(nil), previous...)
	sort.SliceStable(prior, func(i, j int) bool { return prior[i].Order < prior[j].Order })

	var snapshot []models.FormField
	taken := make(map[uuid.UUID]struct{}, len(used))
	push := func(field models.CustomField) {
		snapshot = append(snapshot, models.FormField{
			FieldID:   field.ID,
			Label:     field.Label,
			FieldType: field.FieldType,
			Options:   append([]string(nil), field.Options...),
			Prefix:    field.Prefix,
			Suffix:    field.Suffix,
			Order:     len(snapshot),
		})
		taken[field.ID] = struct{}{}
	}
	for _, formField := range prior {
		if _, ok := used[formField.FieldID]; !ok {
			continue
		}
		if _, ok := taken[formField.FieldID]; ok {
			continue
		}
		if field, ok := index[formField.FieldID]; ok {
			push(field)
		}
	}
	for _, field := range registry {
		if _, ok := used[field.ID]; !ok {
			continue
		}
		if _, ok := taken[field.ID]; ok {
			continue
		}
		push(field)
	}
	return snapshot
}

// loadRegistry returns the field registry in display order plus an id index.
func (s *service) loadRegistry(ctx context.Context) ([]models.CustomField, map[uuid.UUID]models.CustomField, error) {
	fields, err := s.fields.List(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list fields")
	}
	index := make(map[uuid.UUID]models.CustomField, len(fields))
	for _, field := range fields {
		index[field.ID] = field
	}
	return fields, index, nil
}

func coreFields(input ProductInput) (category, name, productType string, err error) {
	category = strings.TrimSpace(input.Category)
	name = strings.TrimSpace(input.Name)
	productType = strings.TrimSpace(input.Type)
	if category == "" || name == "" || productType == "" {
		return "", "", "", pkgerrors.New(pkgerrors.CodeValidation, "product category, name and type are required")
	}
	return category, name, productType, nil
}

// validateEntries checks every submitted value against its registry field
// and drops empty values. Unknown field ids are rejected.
func validateEntries(entries []models.FieldValueEntry, registry map[uuid.UUID]models.CustomField) ([]models.FieldValueEntry, error) {
	out := make([]models.FieldValueEntry, 0, len(entries))
	for _, entry := range entries {
		field, ok := registry[entry.FieldID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown custom field %s", entry.FieldID))
		}
		if entry.Value.IsZero() {
			continue
		}
		if err := customfields.ValidateValue(&field, entry.Value); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
