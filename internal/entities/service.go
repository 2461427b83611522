package entities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

// Channel selects which contact point list an operation targets.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// ParseChannel converts raw input into a Channel.
func ParseChannel(value string) (Channel, error) {
	switch value {
	case string(ChannelEmail):
		return ChannelEmail, nil
	case string(ChannelPhone):
		return ChannelPhone, nil
	}
	return "", fmt.Errorf("invalid contact channel %q", value)
}

// Service exposes CRUD and contact point management for the five entity
// collections.
type Service interface {
	Get(ctx context.Context, kind enums.EntityKind, id uuid.UUID) (*EntityDTO, error)
	List(ctx context.Context, kind enums.EntityKind) ([]EntityDTO, error)
	Create(ctx context.Context, kind enums.EntityKind, input CreateEntityInput) (*EntityDTO, error)
	Update(ctx context.Context, kind enums.EntityKind, id uuid.UUID, input UpdateEntityInput) (*EntityDTO, error)
	Delete(ctx context.Context, kind enums.EntityKind, id uuid.UUID) error

	AddContactPoint(ctx context.Context, kind enums.EntityKind, id uuid.UUID, channel Channel, point types.ContactPoint) (*EntityDTO, error)
	RemoveContactPoint(ctx context.Context, kind enums.EntityKind, id uuid.UUID, channel Channel, value string) (*EntityDTO, error)
	SetPrimaryContactPoint(ctx context.Context, kind enums.EntityKind, id uuid.UUID, channel Channel, value string) (*EntityDTO, error)
}

// CreateEntityInput holds the validated payload to create an entity.
type CreateEntityInput struct {
	Name      string
	FirstName string
	LastName  string
	Address   string
	Website   string
	Notes     string
	Emails    types.ContactPointList
	Phones    types.ContactPointList
}

// UpdateEntityInput holds optional mutation values for an entity. Nil fields
// are left untouched.
type UpdateEntityInput struct {
	Name      *string
	FirstName *string
	LastName  *string
	Address   *string
	Website   *string
	Notes     *string
	Emails    *types.ContactPointList
	Phones    *types.ContactPointList
}

type service struct {
	repo *Repository
}

// NewService constructs the entity service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("entity repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, kind enums.EntityKind, id uuid.UUID) (*EntityDTO, error) {
	entity, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return NewEntityDTO(entity), nil
}

func (s *service) List(ctx context.Context, kind enums.EntityKind) ([]EntityDTO, error) {
	rows, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list entities")
	}
	out := make([]EntityDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewEntityDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, kind enums.EntityKind, input CreateEntityInput) (*EntityDTO, error) {
	if err := validateRequiredScalars(kind, input.Name, input.FirstName, input.LastName); err != nil {
		return nil, err
	}

	entity := &models.Entity{
		Kind:      kind,
		Name:      strings.TrimSpace(input.Name),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Address:   input.Address,
		Website:   input.Website,
		Notes:     input.Notes,
		Emails:    datatypes.NewJSONType(healPrimary(input.Emails)),
		Phones:    datatypes.NewJSONType(healPrimary(input.Phones)),
	}

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert entity")
	}
	return NewEntityDTO(created), nil
}

func (s *service) Update(ctx context.Context, kind enums.EntityKind, id uuid.UUID, input UpdateEntityInput) (*EntityDTO, error) {
	entity, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(entity, input)

	if err := validateRequiredScalars(kind, entity.Name, entity.FirstName, entity.LastName); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, entity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update entity")
	}
	return NewEntityDTO(saved), nil
}

func (s *service) Delete(ctx context.Context, kind enums.EntityKind, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", kind))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete entity")
	}
	return nil
}

func (s *service) AddContactPoint(ctx context.Context, kind enums.EntityKind, id uuid.UUID, channel Channel, point types.ContactPoint) (*EntityDTO, error) {
	if strings.TrimSpace(point.Value) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact point value is required")
	}
	if channel == ChannelEmail {
		point.Extension = ""
	}
	return s.mutateContactPoints(ctx, kind, id, channel, func(list types.ContactPointList) types.ContactPointList {
		return list.Add(point)
	})
}

func (s *service) RemoveContactPoint(ctx context.Context, kind enums.EntityKind, id uuid.UUID, channel Channel, value string) (*EntityDTO, error) {
	return s.mutateContactPoints(ctx, kind, id, channel, func(list types.ContactPointList) types.ContactPointList {
		return list.Remove(value)
	})
}

func (s *service) SetPrimaryContactPoint(ctx context.Context, kind enums.EntityKind, id uuid.UUID, channel Channel, value string) (*EntityDTO, error) {
	return s.mutateContactPoints(ctx, kind, id, channel, func(list types.ContactPointList) types.ContactPointList {
		return list.SetPrimary(value)
	})
}

func (s *service) mutateContactPoints(ctx context.Context, kind enums.EntityKind, id uuid.UUID, channel Channel, mutate func(types.ContactPointList) types.ContactPointList) (*EntityDTO, error) {
	entity, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	switch channel {
	case ChannelEmail:
		entity.Emails = datatypes.NewJSONType(mutate(entity.Emails.Data()))
	case ChannelPhone:
		entity.Phones = datatypes.NewJSONType(mutate(entity.Phones.Data()))
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid contact channel %q", channel))
	}

	saved, err := s.repo.Save(ctx, entity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update contact points")
	}
	return NewEntityDTO(saved), nil
}

func (s *service) load(ctx context.Context, kind enums.EntityKind, id uuid.UUID) (*models.Entity, error) {
	entity, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", kind))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load entity")
	}
	return entity, nil
}

func validateRequiredScalars(kind enums.EntityKind, name, firstName, lastName string) error {
	if kind == enums.EntityKindContact {
		if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "contact requires first and last name")
		}
		return nil
	}
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s requires a name", kind))
	}
	return nil
}

// healPrimary enforces the single-primary invariant on a freshly submitted
// list: no primary promotes index 0, several primaries keep the first.
func healPrimary(list types.ContactPointList) types.ContactPointList {
	if len(list) == 0 {
		return list
	}
	out := append(types.ContactPointList(nil), list...)
	seen := false
	for i := range out {
		if !out[i].IsPrimary {
			continue
		}
		if seen {
			out[i].IsPrimary = false
			continue
		}
		seen = true
	}
	if !seen {
		out[0].IsPrimary = true
	}
	return out
}

func applyUpdate(entity *models.Entity, input UpdateEntityInput) {
	if input.Name != nil {
		entity.Name = strings.TrimSpace(*input.Name)
	}
	if input.FirstName != nil {
		entity.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		entity.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Address != nil {
		entity.Address = *input.Address
	}
	if input.Website != nil {
		entity.Website = *input.Website
	}
	if input.Notes != nil {
		entity.Notes = *input.Notes
	}
	if input.Emails != nil {
		entity.Emails = datatypes.NewJSONType(healPrimary(*input.Emails))
	}
	if input.Phones != nil {
		entity.Phones = datatypes.NewJSONType(healPrimary(*input.Phones))
	}
}
