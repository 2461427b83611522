package relationships

import (
	"github.com/google/uuid"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
)

// PrimarySlot names a single-valued designation pointer on a target entity.
type PrimarySlot string

const (
	SlotPrimaryGroup      PrimarySlot = "primaryGroup"
	SlotPrimaryChain      PrimarySlot = "primaryChain"
	SlotPrimaryContact    PrimarySlot = "primaryContact"
	SlotWalkAroundContact PrimarySlot = "walkAroundContact"
)

// supportedSlots maps target kind -> subject kind -> the slot the subject
// occupies on the target. Combinations missing here are rejected. The
// walk-around slot is reachable only through SetWalkAroundContact.
var supportedSlots = map[enums.EntityKind]map[enums.EntityKind]PrimarySlot{
	enums.EntityKindSite: {
		enums.EntityKindGroup:   SlotPrimaryGroup,
		enums.EntityKindChain:   SlotPrimaryChain,
		enums.EntityKindContact: SlotPrimaryContact,
	},
	enums.EntityKindChain: {
		enums.EntityKindGroup:   SlotPrimaryGroup,
		enums.EntityKindContact: SlotPrimaryContact,
	},
	enums.EntityKindGroup: {
		enums.EntityKindContact: SlotPrimaryContact,
	},
	enums.EntityKindSupplier: {
		enums.EntityKindContact: SlotPrimaryContact,
	},
}

// slotFor resolves which slot the subject kind occupies on the target kind.
func slotFor(targetKind, subjectKind enums.EntityKind) (PrimarySlot, bool) {
	slots, ok := supportedSlots[targetKind]
	if !ok {
		return "", false
	}
	slot, ok := slots[subjectKind]
	return slot, ok
}

func slotValue(entity *models.Entity, slot PrimarySlot) *uuid.UUID {
	switch slot {
	case SlotPrimaryGroup:
		return entity.PrimaryGroupID
	case SlotPrimaryChain:
		return entity.PrimaryChainID
	case SlotPrimaryContact:
		return entity.PrimaryContactID
	case SlotWalkAroundContact:
		return entity.WalkAroundContactID
	}
	return nil
}

func setSlotValue(entity *models.Entity, slot PrimarySlot, id *uuid.UUID) {
	switch slot {
	case SlotPrimaryGroup:
		entity.PrimaryGroupID = id
	case SlotPrimaryChain:
		entity.PrimaryChainID = id
	case SlotPrimaryContact:
		entity.PrimaryContactID = id
	case SlotWalkAroundContact:
		entity.WalkAroundContactID = id
	}
}
