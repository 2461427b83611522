package relationships

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/internal/entities"
	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
)

// Action toggles a primary slot.
type Action string

const (
	ActionSet   Action = "set"
	ActionUnset Action = "unset"
)

// ParseAction converts raw input into an Action.
func ParseAction(value string) (Action, error) {
	switch value {
	case string(ActionSet):
		return ActionSet, nil
	case string(ActionUnset):
		return ActionUnset, nil
	}
	return "", fmt.Errorf("invalid action %q", value)
}

// Additions carries the id lists to union into an entity's membership
// arrays. Nil lists are left untouched.
type Additions struct {
	Groups    []uuid.UUID
	Chains    []uuid.UUID
	Sites     []uuid.UUID
	Contacts  []uuid.UUID
	Suppliers []uuid.UUID
}

// SetPrimaryResult reports a slot toggle.
type SetPrimaryResult struct {
	Message string              `json:"message"`
	Target  *entities.EntityDTO `json:"target"`
}

// Service maintains membership arrays and primary designations between
// entities.
//
// Array updates are read-merge-write: the membership array is fetched,
// unioned in memory, and written back whole. A concurrent writer landing
// between the read and the write is overwritten last-write-wins; the union
// semantic bounds the damage to that one write, it does not remove it.
type Service interface {
	AddRelationships(ctx context.Context, kind enums.EntityKind, id uuid.UUID, additions Additions) (*entities.EntityDTO, error)
	SetPrimary(ctx context.Context, subjectKind enums.EntityKind, subjectID uuid.UUID, targetKind enums.EntityKind, targetID uuid.UUID, action Action) (*SetPrimaryResult, error)
	SetWalkAroundContact(ctx context.Context, siteID uuid.UUID, contactID *uuid.UUID) (*entities.EntityDTO, error)
	ResolveRelated(ctx context.Context, kind enums.EntityKind, id uuid.UUID, relatedKind enums.EntityKind) ([]uuid.UUID, error)
}

type service struct {
	repo *entities.Repository
	logg *logger.Logger
}

// NewService constructs the relationship engine.
func NewService(repo *entities.Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("entity repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// AddRelationships unions the provided ids into the entity's membership
// arrays and mirrors the membership onto each counterpart that resolves.
// Re-adding a present id is a no-op; nothing is ever removed.
func (s *service) AddRelationships(ctx context.Context, kind enums.EntityKind, id uuid.UUID, additions Additions) (*entities.EntityDTO, error) {
	entity, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	byKind := map[enums.EntityKind][]uuid.UUID{
		enums.EntityKindGroup:    additions.Groups,
		enums.EntityKindChain:    additions.Chains,
		enums.EntityKindSite:     additions.Sites,
		enums.EntityKindContact:  additions.Contacts,
		enums.EntityKindSupplier: additions.Suppliers,
	}

	changed := false
	for _, relatedKind := range enums.EntityKinds() {
		ids := byKind[relatedKind]
		if len(ids) == 0 {
			continue
		}
		current, ok := entity.Related(relatedKind)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnsupportedSlot,
				fmt.Sprintf("%s cannot hold %s relationships", kind, relatedKind))
		}
		merged, grew := current.Union(ids...)
		if grew {
			entity.SetRelated(relatedKind, merged)
			changed = true
		}
		if err := s.mirrorMembership(ctx, relatedKind, ids, kind, id); err != nil {
			return nil, err
		}
	}

	if changed {
		if _, err := s.repo.Save(ctx, entity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save relationships")
		}
	}
	return entities.NewEntityDTO(entity), nil
}

// mirrorMembership adds the subject to each counterpart's array of the
// subject's kind. Counterparts that do not resolve are skipped; stale ids
// in stored arrays must not fail the whole merge.
func (s *service) mirrorMembership(ctx context.Context, counterpartKind enums.EntityKind, counterpartIDs []uuid.UUID, subjectKind enums.EntityKind, subjectID uuid.UUID) error {
	for _, counterpartID := range counterpartIDs {
		counterpart, err := s.repo.FindByID(ctx, counterpartKind, counterpartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if s.logg != nil {
					s.logg.Warn(s.logg.WithField(ctx, "related_id", counterpartID.String()), "relationship counterpart missing, skipping mirror")
				}
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load counterpart")
		}
		current, ok := counterpart.Related(subjectKind)
		if !ok {
			continue
		}
		merged, grew := current.Union(subjectID)
		if !grew {
			continue
		}
		counterpart.SetRelated(subjectKind, merged)
		if _, err := s.repo.Save(ctx, counterpart); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mirror relationship")
		}
	}
	return nil
}

// SetPrimary toggles the slot the subject kind occupies on the target.
// Setting replaces any previous occupant and guarantees the subject is a
// member of the target's matching array; unsetting clears the slot only.
func (s *service) SetPrimary(ctx context.Context, subjectKind enums.EntityKind, subjectID uuid.UUID, targetKind enums.EntityKind, targetID uuid.UUID, action Action) (*SetPrimaryResult, error) {
	slot, ok := slotFor(targetKind, subjectKind)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnsupportedSlot,
			fmt.Sprintf("no primary slot exists on %s for %s", targetKind, subjectKind)).
			WithDetails(map[string]any{"target_type": string(targetKind), "entity_type": string(subjectKind)})
	}

	target, err := s.load(ctx, targetKind, targetID)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionSet:
		if _, err := s.load(ctx, subjectKind, subjectID); err != nil {
			return nil, err
		}
		id := subjectID
		setSlotValue(target, slot, &id)
		if current, ok := target.Related(subjectKind); ok {
			if merged, grew := current.Union(subjectID); grew {
				target.SetRelated(subjectKind, merged)
			}
		}
	case ActionUnset:
		setSlotValue(target, slot, nil)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid action %q", action))
	}

	if _, err := s.repo.Save(ctx, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save primary slot")
	}

	verb := "set"
	if action == ActionUnset {
		verb = "cleared"
	}
	return &SetPrimaryResult{
		Message: fmt.Sprintf("%s %s on %s", slot, verb, targetKind),
		Target:  entities.NewEntityDTO(target),
	}, nil
}

// SetWalkAroundContact assigns or clears the site's walk-around contact.
// The slot is independent of primaryContact: the same contact may hold both.
func (s *service) SetWalkAroundContact(ctx context.Context, siteID uuid.UUID, contactID *uuid.UUID) (*entities.EntityDTO, error) {
	site, err := s.load(ctx, enums.EntityKindSite, siteID)
	if err != nil {
		return nil, err
	}

	if contactID == nil {
		setSlotValue(site, SlotWalkAroundContact, nil)
	} else {
		if _, err := s.load(ctx, enums.EntityKindContact, *contactID); err != nil {
			return nil, err
		}
		id := *contactID
		setSlotValue(site, SlotWalkAroundContact, &id)
		if merged, grew := site.Contacts.Union(id); grew {
			site.Contacts = merged
		}
	}

	if _, err := s.repo.Save(ctx, site); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save walk-around contact")
	}
	return entities.NewEntityDTO(site), nil
}

// ResolveRelated returns the related ids of relatedKind for the entity,
// falling back to the legacy single-reference column when the array is
// empty. This is the only place the fallback rule lives.
func (s *service) ResolveRelated(ctx context.Context, kind enums.EntityKind, id uuid.UUID, relatedKind enums.EntityKind) ([]uuid.UUID, error) {
	entity, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return ResolveRelated(entity, relatedKind), nil
}

// ResolveRelated implements the array-else-legacy-scalar read rule on a
// loaded entity.
func ResolveRelated(entity *models.Entity, relatedKind enums.EntityKind) []uuid.UUID {
	if arr, ok := entity.Related(relatedKind); ok && len(arr) > 0 {
		return append([]uuid.UUID(nil), arr...)
	}
	if legacy := entity.LegacyRef(relatedKind); legacy != nil && *legacy != uuid.Nil {
		return []uuid.UUID{*legacy}
	}
	return nil
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
