package types

import (
	"encoding/json"
	"fmt"
)

// FieldValue holds one custom field value. Scalar field types carry a string;
// checkbox and multiselect fields carry a string list. The JSON shape is the
// bare string or array, matching what the admin UI stores.
type FieldValue struct {
	scalar string
	list   []string
	isList bool
}

// ScalarValue builds a scalar field value.
func ScalarValue(value string) FieldValue {
	return FieldValue{scalar: value}
}

// ListValue builds a multi-valued field value.
func ListValue(values ...string) FieldValue {
	return FieldValue{list: append([]string(nil), values...), isList: true}
}

// IsList reports whether the value is multi-valued.
func (v FieldValue) IsList() bool {
	return v.isList
}

// Scalar returns the scalar payload (empty for list values).
func (v FieldValue) Scalar() string {
	return v.scalar
}

// List returns the list payload (nil for scalar values).
func (v FieldValue) List() []string {
	if !v.isList {
		return nil
	}
	return append([]string(nil), v.list...)
}

// IsZero reports whether the value carries no content.
func (v FieldValue) IsZero() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return v.scalar == ""
}

// Equal compares two values including their shape.
func (v FieldValue) Equal(other FieldValue) bool {
	if v.isList != other.isList {
		return false
	}
	if !v.isList {
		return v.scalar == other.scalar
	}
	if len(v.list) != len(other.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != other.list[i] {
			return false
		}
	}
	return true
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var scalar string
	if err := json.Unmarshal(data, &scalar); err == nil {
		*v = FieldValue{scalar: scalar}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = FieldValue{list: list, isList: true}
		return nil
	}
	return fmt.Errorf("field value must be a string or a string array, got %s", string(data))
}
