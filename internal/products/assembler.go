package products

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/sitecrm/sitecrm-backend/internal/customfields"
	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

// FieldState is the toggle position of one field on the entry screen.
type FieldState string

const (
	StateAvailable FieldState = "available"
	StateSelected  FieldState = "selected"
)

// Core field keys. Core fields are always selected and cannot be removed
// from a product.
const (
	CoreCategory  = "category"
	CoreName      = "name"
	CoreType      = "type"
	CoreSuppliers = "suppliers"
)

var coreKeys = []string{CoreCategory, CoreName, CoreType, CoreSuppliers}

// SelectionItem is one row of the entry screen: a field descriptor, its
// toggle state and its current value. Key is the core field name or the
// custom field id.
type SelectionItem struct {
	Key       string           `json:"key"`
	FieldID   uuid.UUID        `json:"fieldId,omitempty"`
	Label     string           `json:"label"`
	FieldType enums.FieldType  `json:"fieldType"`
	Options   []string         `json:"options,omitempty"`
	Prefix    *string          `json:"prefix,omitempty"`
	Suffix    *string          `json:"suffix,omitempty"`
	State     FieldState       `json:"state"`
	Locked    bool             `json:"locked"`
	Value     types.FieldValue `json:"value"`

	order int
}

// Assembler is the product entry selection: one authoritative list of
// fields and their states. The selected sequence always derives from the
// canonical field order, never from the order fields were clicked in.
type Assembler struct {
	items map[string]*SelectionItem
	seq   []string
}

// NewAssembler builds a selection over the live registry: core fields
// locked selected, every registry field available.
func NewAssembler(registry []models.CustomField) *Assembler {
	a := &Assembler{items: make(map[string]*SelectionItem)}
	a.addCore()
	sorted := append([]models.CustomField(nil), registry...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	for position, field := range sorted {
		a.addCustom(models.FormField{
			FieldID:   field.ID,
			Label:     field.Label,
			FieldType: field.FieldType,
			Options:   append([]string(nil), field.Options...),
			Prefix:    field.Prefix,
			Suffix:    field.Suffix,
			Order:     position,
		}, StateAvailable)
	}
	return a
}

func (a *Assembler) addCore() {
	for position, key := range coreKeys {
		fieldType := enums.FieldTypeText
		value := types.ScalarValue("")
		if key == CoreSuppliers {
			fieldType = enums.FieldTypeMultiselect
			value = types.ListValue()
		}
		a.items[key] = &SelectionItem{
			Key:       key,
			Label:     key,
			FieldType: fieldType,
			State:     StateSelected,
			Locked:    true,
			Value:     value,
			order:     position,
		}
		a.seq = append(a.seq, key)
	}
}

func (a *Assembler) addCustom(field models.FormField, state FieldState) {
	key := field.FieldID.String()
	item := &SelectionItem{
		Key:       key,
		FieldID:   field.FieldID,
		Label:     field.Label,
		FieldType: field.FieldType,
		Options:   field.Options,
		Prefix:    field.Prefix,
		Suffix:    field.Suffix,
		State:     state,
		Value:     customfields.DefaultValue(field.FieldType),
		order:     len(coreKeys) + field.Order,
	}
	a.items[key] = item
	a.seq = append(a.seq, key)
}

// ApplyForm replaces the custom portion of the selection with the form's
// snapshot, every form field selected with its default value. Core values
// survive the switch except Category, which the form dictates.
func (a *Assembler) ApplyForm(form *models.Form) {
	core := make(map[string]types.FieldValue, len(coreKeys))
	for _, key := range coreKeys {
		core[key] = a.items[key].Value
	}

	a.items = make(map[string]*SelectionItem)
	a.seq = nil
	a.addCore()
	for _, key := range coreKeys {
		a.items[key].Value = core[key]
	}
	a.items[CoreCategory].Value = types.ScalarValue(form.Category)

	fields := append([]models.FormField(nil), form.Fields.Data()...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
	for position, field := range fields {
		field.Order = position
		a.addCustom(field, StateSelected)
	}
}

// Select marks the field selected and gives it its type default without
// touching any other value. Selecting an already selected field is a no-op.
func (a *Assembler) Select(key string) error {
	item, err := a.item(key)
	if err != nil {
		return err
	}
	if item.State == StateSelected {
		return nil
	}
	item.State = StateSelected
	item.Value = customfields.DefaultValue(item.FieldType)
	return nil
}

// Deselect returns the field to the available pool and discards its value.
// Locked core fields cannot be deselected.
func (a *Assembler) Deselect(key string) error {
	item, err := a.item(key)
	if err != nil {
		return err
	}
	if item.Locked {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s is a core field and cannot be removed", item.Label))
	}
	item.State = StateAvailable
	item.Value = customfields.DefaultValue(item.FieldType)
	return nil
}

// SetValue stores a value on a selected field after checking it against the
// field's type contract.
func (a *Assembler) SetValue(key string, value types.FieldValue) error {
	item, err := a.item(key)
	if err != nil {
		return err
	}
	if item.State != StateSelected {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("field %q is not selected", item.Label))
	}
	if item.FieldID != uuid.Nil {
		descriptor := &models.CustomField{
			Label:     item.Label,
			FieldType: item.FieldType,
			Options:   item.Options,
		}
		if err := customfields.ValidateValue(descriptor, value); err != nil {
			return err
		}
	}
	item.Value = value
	return nil
}

// Items returns every field in canonical order.
func (a *Assembler) Items() []SelectionItem {
	out := make([]SelectionItem, 0, len(a.seq))
	for _, key := range a.keysInOrder() {
		out = append(out, *a.items[key])
	}
	return out
}

// Selected returns the selected fields in canonical order.
func (a *Assembler) Selected() []SelectionItem {
	out := make([]SelectionItem, 0, len(a.seq))
	for _, key := range a.keysInOrder() {
		if a.items[key].State == StateSelected {
			out = append(out, *a.items[key])
		}
	}
	return out
}

// CustomData projects the selected custom fields that carry a value into
// the stored entry list, in canonical order.
func (a *Assembler) CustomData() []models.FieldValueEntry {
	var entries []models.FieldValueEntry
	for _, item := range a.Selected() {
		if item.FieldID == uuid.Nil || item.Value.IsZero() {
			continue
		}
		entries = append(entries, models.FieldValueEntry{FieldID: item.FieldID, Value: item.Value})
	}
	return entries
}

func (a *Assembler) item(key string) (*SelectionItem, error) {
	item, ok := a.items[key]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no field %q in the selection", key))
	}
	return item, nil
}

func (a *Assembler) keysInOrder() []string {
	keys := append([]string(nil), a.seq...)
	sort.SliceStable(keys, func(i, j int) bool {
		return a.items[keys[i]].order < a.items[keys[j]].order
	})
	return keys
}
