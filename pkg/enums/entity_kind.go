package enums

import "fmt"

// EntityKind identifies one of the five CRM entity collections.
type EntityKind string

const (
	EntityKindGroup    EntityKind = "group"
	EntityKindChain    EntityKind = "chain"
	EntityKindSite     EntityKind = "site"
	EntityKindContact  EntityKind = "contact"
	EntityKindSupplier EntityKind = "supplier"
)

var validEntityKinds = []EntityKind{
	EntityKindGroup,
	EntityKindChain,
	EntityKindSite,
	EntityKindContact,
	EntityKindSupplier,
}

// String implements fmt.Stringer.
func (k EntityKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known EntityKind.
func (k EntityKind) IsValid() bool {
	for _, candidate := range validEntityKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// EntityKinds returns all known kinds in declaration order.
func EntityKinds() []EntityKind {
	return append([]EntityKind(nil), validEntityKinds...)
}

// ParseEntityKind converts raw input into an EntityKind.
func ParseEntityKind(value string) (EntityKind, error) {
	for _, candidate := range validEntityKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity kind %q", value)
}
