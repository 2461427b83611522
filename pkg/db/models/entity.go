package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbtypes "github.com/sitecrm/sitecrm-backend/pkg/db/types"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

// Entity is one CRM record. All five kinds share the table; kind-specific
// columns are simply unused by the kinds they do not apply to, which mirrors
// the document shape this data has always had.
type Entity struct {
	ID   uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Kind enums.EntityKind `gorm:"column:kind;not null;index"`

	// Name applies to group/chain/site/supplier; contacts use the pair below.
	Name      string `gorm:"column:name"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`

	Address string `gorm:"column:address"`
	Website string `gorm:"column:website"`
	Notes   string `gorm:"column:notes"`

	Emails datatypes.JSONType[types.ContactPointList] `gorm:"column:emails"`
	Phones datatypes.JSONType[types.ContactPointList] `gorm:"column:phones"`

	Groups    dbtypes.UUIDArray `gorm:"column:groups"`
	Chains    dbtypes.UUIDArray `gorm:"column:chains"`
	Sites     dbtypes.UUIDArray `gorm:"column:sites"`
	Contacts  dbtypes.UUIDArray `gorm:"column:contacts"`
	Suppliers dbtypes.UUIDArray `gorm:"column:suppliers"`

	// Single-reference columns written by the previous generation of the
	// admin UI. Read as a fallback when the matching array is empty; never
	// written by new code.
	LegacyGroupID *uuid.UUID `gorm:"column:group_id;type:uuid"`
	LegacyChainID *uuid.UUID `gorm:"column:chain_id;type:uuid"`
	LegacySiteID  *uuid.UUID `gorm:"column:site_id;type:uuid"`

	PrimaryGroupID      *uuid.UUID `gorm:"column:primary_group_id;type:uuid"`
	PrimaryChainID      *uuid.UUID `gorm:"column:primary_chain_id;type:uuid"`
	PrimaryContactID    *uuid.UUID `gorm:"column:primary_contact_id;type:uuid"`
	WalkAroundContactID *uuid.UUID `gorm:"column:walk_around_contact_id;type:uuid"`

	IsPrimaryContact    bool `gorm:"column:is_primary_contact;not null;default:false"`
	IsWalkAroundContact bool `gorm:"column:is_walk_around_contact;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Entity) TableName() string {
	return "entities"
}

func (e *Entity) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the human label for list screens.
func (e *Entity) DisplayName() string {
	if e.Kind == enums.EntityKindContact {
		return strings.TrimSpace(e.FirstName + " " + e.LastName)
	}
	return e.Name
}

// Related returns the membership array for the given related kind. The
// second return is false when the combination does not exist in the model
// (an entity holds no array of its own kind).
func (e *Entity) Related(kind enums.EntityKind) (dbtypes.UUIDArray, bool) {
	if kind == e.Kind {
		return nil, false
	}
	switch kind {
	case enums.EntityKindGroup:
		return e.Groups, true
	case enums.EntityKindChain:
		return e.Chains, true
	case enums.EntityKindSite:
		return e.Sites, true
	case enums.EntityKindContact:
		return e.Contacts, true
	case enums.EntityKindSupplier:
		return e.Suppliers, true
	}
	return nil, false
}

// SetRelated replaces the membership array for the given related kind.
func (e *Entity) SetRelated(kind enums.EntityKind, ids dbtypes.UUIDArray) bool {
	if kind == e.Kind {
		return false
	}
	switch kind {
	case enums.EntityKindGroup:
		e.Groups = ids
	case enums.EntityKindChain:
		e.Chains = ids
	case enums.EntityKindSite:
		e.Sites = ids
	case enums.EntityKindContact:
		e.Contacts = ids
	case enums.EntityKindSupplier:
		e.Suppliers = ids
	default:
		return false
	}
	return true
}

// LegacyRef returns the old single-reference pointer for the given kind,
// or nil when the kind never had one.
func (e *Entity) LegacyRef(kind enums.EntityKind) *uuid.UUID {
	switch kind {
	case enums.EntityKindGroup:
		return e.LegacyGroupID
	case enums.EntityKindChain:
		return e.LegacyChainID
	case enums.EntityKindSite:
		return e.LegacySiteID
	}
	return nil
}
