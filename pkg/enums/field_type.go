package enums

import "fmt"

// FieldType is the closed set of custom field input types supported by the
// catalog builder. Readers should dispatch exhaustively on this type rather
// than branching on raw strings.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeNumber      FieldType = "number"
	FieldTypeDropdown    FieldType = "dropdown"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeDate        FieldType = "date"
	FieldTypeURL         FieldType = "url"
	FieldTypeFile        FieldType = "file"
	FieldTypeMultiselect FieldType = "multiselect"
)

// legacyFieldTypeSelect is accepted on parse for records written by the old
// admin UI and normalizes to FieldTypeDropdown.
const legacyFieldTypeSelect = "select"

var validFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeDropdown,
	FieldTypeRadio,
	FieldTypeCheckbox,
	FieldTypeDate,
	FieldTypeURL,
	FieldTypeFile,
	FieldTypeMultiselect,
}

// String implements fmt.Stringer.
func (f FieldType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FieldType.
func (f FieldType) IsValid() bool {
	for _, candidate := range validFieldTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFieldType converts raw input into a FieldType.
func ParseFieldType(value string) (FieldType, error) {
	if value == legacyFieldTypeSelect {
		return FieldTypeDropdown, nil
	}
	for _, candidate := range validFieldTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid field type %q", value)
}

// RequiresOptions reports whether fields of this type must declare a
// non-empty option list.
func (f FieldType) RequiresOptions() bool {
	switch f {
	case FieldTypeDropdown, FieldTypeRadio, FieldTypeCheckbox:
		return true
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeURL, FieldTypeFile, FieldTypeMultiselect:
		return false
	}
	return false
}

// Multivalued reports whether values of this type are lists rather than
// scalars.
func (f FieldType) Multivalued() bool {
	switch f {
	case FieldTypeCheckbox, FieldTypeMultiselect:
		return true
	case FieldTypeText, FieldTypeNumber, FieldTypeDropdown, FieldTypeRadio, FieldTypeDate, FieldTypeURL, FieldTypeFile:
		return false
	}
	return false
}

// AllowsAffixes reports whether prefix/suffix decorations apply.
func (f FieldType) AllowsAffixes() bool {
	return f == FieldTypeNumber
}
