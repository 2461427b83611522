package entities

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

// EntityDTO is the read shape returned to list and detail screens. It adds
// the derived primary email/phone and the search haystack so screens never
// reimplement the primary fallback rule.
type EntityDTO struct {
	ID        uuid.UUID        `json:"id"`
	Kind      enums.EntityKind `json:"kind"`
	Name      string           `json:"name,omitempty"`
	FirstName string           `json:"firstName,omitempty"`
	LastName  string           `json:"lastName,omitempty"`
	Display   string           `json:"display"`
	Address   string           `json:"address,omitempty"`
	Website   string           `json:"website,omitempty"`
	Notes     string           `json:"notes,omitempty"`

	Emails types.ContactPointList `json:"emails"`
	Phones types.ContactPointList `json:"phones"`

	PrimaryEmail string `json:"primaryEmail,omitempty"`
	PrimaryPhone string `json:"primaryPhone,omitempty"`
	Match        string `json:"-"`

	Groups    []uuid.UUID `json:"groups"`
	Chains    []uuid.UUID `json:"chains"`
	Sites     []uuid.UUID `json:"sites"`
	Contacts  []uuid.UUID `json:"contacts"`
	Suppliers []uuid.UUID `json:"suppliers"`

	PrimaryGroupID      *uuid.UUID `json:"primaryGroup,omitempty"`
	PrimaryChainID      *uuid.UUID `json:"primaryChain,omitempty"`
	PrimaryContactID    *uuid.UUID `json:"primaryContact,omitempty"`
	WalkAroundContactID *uuid.UUID `json:"walkAroundContact,omitempty"`

	IsPrimaryContact    bool `json:"isPrimaryContact,omitempty"`
	IsWalkAroundContact bool `json:"isWalkAroundContact,omitempty"`
}

// NewEntityDTO projects the stored entity into its read shape.
func NewEntityDTO(entity *models.Entity) *EntityDTO {
	if entity == nil {
		return nil
	}

	emails := entity.Emails.Data()
	phones := entity.Phones.Data()

	dto := &EntityDTO{
		ID:                  entity.ID,
		Kind:                entity.Kind,
		Name:                entity.Name,
		FirstName:           entity.FirstName,
		LastName:            entity.LastName,
		Display:             entity.DisplayName(),
		Address:             entity.Address,
		Website:             entity.Website,
		Notes:               entity.Notes,
		Emails:              emails,
		Phones:              phones,
		Groups:              entity.Groups,
		Chains:              entity.Chains,
		Sites:               entity.Sites,
		Contacts:            entity.Contacts,
		Suppliers:           entity.Suppliers,
		PrimaryGroupID:      entity.PrimaryGroupID,
		PrimaryChainID:      entity.PrimaryChainID,
		PrimaryContactID:    entity.PrimaryContactID,
		WalkAroundContactID: entity.WalkAroundContactID,
		IsPrimaryContact:    entity.IsPrimaryContact,
		IsWalkAroundContact: entity.IsWalkAroundContact,
	}

	if primary := emails.FindPrimary(); primary != nil {
		dto.PrimaryEmail = primary.Value
	}
	if primary := phones.FindPrimary(); primary != nil {
		dto.PrimaryPhone = primary.Value
	}

	haystack := []string{strings.ToLower(dto.Display), emails.MatchString(), phones.MatchString()}
	dto.Match = strings.TrimSpace(strings.Join(haystack, " "))

	return dto
}
