package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UUIDArray stores an id set as a postgres-style array literal. The literal
// is plain text, so the same codec works against the sqlite test harness.
type UUIDArray []uuid.UUID

func (a *UUIDArray) Scan(src any) error {
	if src == nil {
		*a = UUIDArray{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return a.parseFromString(v)
	case []byte:
		return a.parseFromString(string(v))
	default:
		return fmt.Errorf("UUIDArray: unsupported Scan type %T", src)
	}
}

func (a UUIDArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(a))
	for _, id := range a {
		parts = append(parts, id.String())
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (a *UUIDArray) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "{}" || s == "" {
		*a = UUIDArray{}
		return nil
	}
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if strings.TrimSpace(s) == "" {
		*a = UUIDArray{}
		return nil
	}

	raw := strings.Split(s, ",")
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(strings.Trim(r, `"`))
		id, err := uuid.Parse(r)
		if err != nil {
			return fmt.Errorf("UUIDArray: parse %q: %w", r, err)
		}
		out = append(out, id)
	}
	*a = out
	return nil
}

// Contains reports membership.
func (a UUIDArray) Contains(id uuid.UUID) bool {
	for _, member := range a {
		if member == id {
			return true
		}
	}
	return false
}

// Union merges ids into the array without removing or reordering existing
// members. The second return reports whether anything was added, so callers
// can skip redundant writes.
func (a UUIDArray) Union(ids ...uuid.UUID) (UUIDArray, bool) {
	out := append(UUIDArray(nil), a...)
	changed := false
	for _, id := range ids {
		if id == uuid.Nil || out.Contains(id) {
			continue
		}
		out = append(out, id)
		changed = true
	}
	return out, changed
}
