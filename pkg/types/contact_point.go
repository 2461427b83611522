package types

import (
	"encoding/json"
	"strings"
)

// ContactPoint is a single email or phone record on an entity.
type ContactPoint struct {
	Value     string `json:"value"`
	Location  string `json:"location,omitempty"`
	Extension string `json:"extension,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

// ContactPointList is an entity's email or phone list. A non-empty list holds
// exactly one primary record; the mutation helpers below keep that invariant
// by promotion rather than by rejecting writes.
type ContactPointList []ContactPoint

// UnmarshalJSON accepts both the current object shape and the legacy flat
// string list. Legacy strings decode with no primary flag set; they are a
// read-only fallback and are not normalized on decode.
func (l *ContactPointList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ContactPointList, 0, len(raw))
	for _, item := range raw {
		var value string
		if err := json.Unmarshal(item, &value); err == nil {
			out = append(out, ContactPoint{Value: value})
			continue
		}
		var point ContactPoint
		if err := json.Unmarshal(item, &point); err != nil {
			return err
		}
		out = append(out, point)
	}
	*l = out
	return nil
}

// Add appends a contact point. The first record of a list is promoted to
// primary; a record added as primary demotes the current one.
func (l ContactPointList) Add(point ContactPoint) ContactPointList {
	if len(l) == 0 {
		point.IsPrimary = true
		return ContactPointList{point}
	}
	out := append(ContactPointList(nil), l...)
	if point.IsPrimary {
		for i := range out {
			out[i].IsPrimary = false
		}
	}
	return append(out, point)
}

// Remove drops the first record matching value. Removing the primary promotes
// the first remaining record.
func (l ContactPointList) Remove(value string) ContactPointList {
	out := make(ContactPointList, 0, len(l))
	removedPrimary := false
	removed := false
	for _, point := range l {
		if !removed && point.Value == value {
			removed = true
			removedPrimary = point.IsPrimary
			continue
		}
		out = append(out, point)
	}
	if removedPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SetPrimary marks the first record matching value as the single primary.
// Unknown values leave the list untouched.
func (l ContactPointList) SetPrimary(value string) ContactPointList {
	found := false
	for _, point := range l {
		if point.Value == value {
			found = true
			break
		}
	}
	if !found {
		return l
	}
	out := append(ContactPointList(nil), l...)
	marked := false
	for i := range out {
		if !marked && out[i].Value == value {
			out[i].IsPrimary = true
			marked = true
			continue
		}
		out[i].IsPrimary = false
	}
	return out
}

// FindPrimary returns the primary record. A non-empty list with no primary
// flag falls back to index 0; this is the legacy display rule and must stay.
func (l ContactPointList) FindPrimary() *ContactPoint {
	for i := range l {
		if l[i].IsPrimary {
			return &l[i]
		}
	}
	if len(l) > 0 {
		return &l[0]
	}
	return nil
}

// MatchString returns a lowercase haystack of every value for search screens.
func (l ContactPointList) MatchString() string {
	if len(l) == 0 {
		return ""
	}
	values := make([]string, 0, len(l))
	for _, point := range l {
		values = append(values, strings.ToLower(point.Value))
	}
	return strings.Join(values, " ")
}
