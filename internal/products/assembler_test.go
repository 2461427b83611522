package products

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

func registryFixture() []models.CustomField {
	return []models.CustomField{
		{ID: uuid.New(), Label: "Weight", FieldType: enums.FieldTypeNumber, Order: 0},
		{ID: uuid.New(), Label: "Size", FieldType: enums.FieldTypeDropdown, Options: []string{"S", "L"}, Order: 1},
		{ID: uuid.New(), Label: "Tags", FieldType: enums.FieldTypeCheckbox, Options: []string{"New", "Sale"}, Order: 2},
	}
}

func TestNewAssemblerLocksCoreFields(t *testing.T) {
	a := NewAssembler(registryFixture())

	items := a.Items()
	require.Len(t, items, 7)
	for i, key := range []string{CoreCategory, CoreName, CoreType, CoreSuppliers} {
		assert.Equal(t, key, items[i].Key)
		assert.Equal(t, StateSelected, items[i].State)
		assert.True(t, items[i].Locked)
	}
	for _, item := range items[4:] {
		assert.Equal(t, StateAvailable, item.State)
	}

	err := a.Deselect(CoreName)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSelectGivesTypeDefaultWithoutDisturbingOthers(t *testing.T) {
	registry := registryFixture()
	a := NewAssembler(registry)
	weight := registry[0].ID.String()
	tags := registry[2].ID.String()

	require.NoError(t, a.Select(weight))
	require.NoError(t, a.SetValue(weight, types.ScalarValue("12.5")))
	require.NoError(t, a.Select(tags))

	selected := a.Selected()
	require.Len(t, selected, 6)
	assert.Equal(t, "12.5", selected[4].Value.Scalar(), "selecting tags must not touch weight")
	assert.True(t, selected[5].Value.IsList())
	assert.True(t, selected[5].Value.IsZero())

	// selecting again is a no-op, not a reset
	require.NoError(t, a.Select(weight))
	assert.Equal(t, "12.5", a.Selected()[4].Value.Scalar())
}

func TestSelectedOrderIsCanonicalNotClickOrder(t *testing.T) {
	registry := registryFixture()
	a := NewAssembler(registry)

	// click in reverse registry order
	require.NoError(t, a.Select(registry[2].ID.String()))
	require.NoError(t, a.Select(registry[0].ID.String()))

	selected := a.Selected()
	require.Len(t, selected, 6)
	assert.Equal(t, "Weight", selected[4].Label)
	assert.Equal(t, "Tags", selected[5].Label)
}

func TestDeselectDiscardsValue(t *testing.T) {
	registry := registryFixture()
	a := NewAssembler(registry)
	weight := registry[0].ID.String()

	require.NoError(t, a.Select(weight))
	require.NoError(t, a.SetValue(weight, types.ScalarValue("12.5")))
	require.NoError(t, a.Deselect(weight))
	require.NoError(t, a.Select(weight))

	items := a.Items()
	assert.True(t, items[4].Value.IsZero(), "reselecting starts from the type default")
}

func TestSetValueEnforcesFieldContract(t *testing.T) {
	registry := registryFixture()
	a := NewAssembler(registry)
	size := registry[1].ID.String()

	require.NoError(t, a.Select(size))
	require.NoError(t, a.SetValue(size, types.ScalarValue("S")))

	err := a.SetValue(size, types.ScalarValue("XL"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	weight := registry[0].ID.String()
	err = a.SetValue(weight, types.ScalarValue("1"))
	require.Error(t, err, "values only land on selected fields")
}

func TestApplyFormSeedsAndPreservesCore(t *testing.T) {
	registry := registryFixture()
	a := NewAssembler(registry)
	require.NoError(t, a.SetValue(CoreName, types.ScalarValue("Oranges")))
	require.NoError(t, a.SetValue(CoreCategory, types.ScalarValue("Old Category")))

	weight := registry[0].ID.String()
	require.NoError(t, a.Select(weight))
	require.NoError(t, a.SetValue(weight, types.ScalarValue("3")))

	form := &models.Form{
		Category: "Produce",
		Name:     "Produce form",
		Type:     "catalog",
		Fields: datatypes.NewJSONType([]models.FormField{
			{FieldID: registry[1].ID, Label: "Size", FieldType: enums.FieldTypeDropdown, Options: []string{"S", "L"}, Order: 0},
		}),
	}
	a.ApplyForm(form)

	items := a.Items()
	require.Len(t, items, 5, "only core plus the form's fields remain")
	assert.Equal(t, "Oranges", items[1].Value.Scalar(), "name survives the form switch")
	assert.Equal(t, "Produce", items[0].Value.Scalar(), "the form dictates the category")
	assert.Equal(t, "Size", items[4].Label)
	assert.Equal(t, StateSelected, items[4].State)
	assert.True(t, items[4].Value.IsZero(), "custom selections reset on switch")
}

func TestCustomDataSkipsEmptyValues(t *testing.T) {
	registry := registryFixture()
	a := NewAssembler(registry)

	require.NoError(t, a.Select(registry[0].ID.String()))
	require.NoError(t, a.Select(registry[1].ID.String()))
	require.NoError(t, a.SetValue(registry[1].ID.String(), types.ScalarValue("L")))

	entries := a.CustomData()
	require.Len(t, entries, 1)
	assert.Equal(t, registry[1].ID, entries[0].FieldID)
	assert.Equal(t, "L", entries[0].Value.Scalar())
}
