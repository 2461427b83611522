package customfields

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.CustomField{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	return svc
}

func TestSaveAppendsNewFieldsInOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, FieldDraft{Label: "Weight", FieldType: "number"})
	require.NoError(t, err)
	second, err := svc.Save(ctx, FieldDraft{Label: "Color", FieldType: "text"})
	require.NoError(t, err)

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)

	fields, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "Weight", fields[0].Label)
	assert.Equal(t, "Color", fields[1].Label)
}

func TestSaveUpdateKeepsOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, FieldDraft{Label: "Weight", FieldType: "number"})
	require.NoError(t, err)
	field, err := svc.Save(ctx, FieldDraft{Label: "Color", FieldType: "text"})
	require.NoError(t, err)

	updated, err := svc.Save(ctx, FieldDraft{ID: &field.ID, Label: "Colour", FieldType: "text"})
	require.NoError(t, err)
	assert.Equal(t, field.ID, updated.ID)
	assert.Equal(t, "Colour", updated.Label)
	assert.Equal(t, 1, updated.Order)
}

func TestSaveNormalizesLegacySelect(t *testing.T) {
	svc := newTestService(t)

	field, err := svc.Save(context.Background(), FieldDraft{
		Label:     "Size",
		FieldType: "select",
		Options:   []string{" Small ", "Large"},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.FieldTypeDropdown, field.FieldType)
	assert.Equal(t, []string{"Small", "Large"}, []string(field.Options))
}

func TestSaveValidatesOptionLists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		options []string
	}{
		{"empty", nil},
		{"blank entry", []string{"Red", "  "}},
		{"duplicate", []string{"Red", " Red "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Save(ctx, FieldDraft{Label: "Size", FieldType: "dropdown", Options: tc.options})
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestSaveDropsAffixesOutsideNumberFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	dollar := "$"

	number, err := svc.Save(ctx, FieldDraft{Label: "Price", FieldType: "number", Prefix: &dollar})
	require.NoError(t, err)
	require.NotNil(t, number.Prefix)
	assert.Equal(t, "$", *number.Prefix)

	text, err := svc.Save(ctx, FieldDraft{Label: "Color", FieldType: "text", Prefix: &dollar})
	require.NoError(t, err)
	assert.Nil(t, text.Prefix)
}

func TestReorderFieldsIsBestEffort(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Save(ctx, FieldDraft{Label: "A", FieldType: "text"})
	require.NoError(t, err)
	b, err := svc.Save(ctx, FieldDraft{Label: "B", FieldType: "text"})
	require.NoError(t, err)
	ghost := uuid.New()

	report, err := svc.ReorderFields(ctx, []uuid.UUID{b.ID, ghost, a.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Updated)
	require.Len(t, report.Errors, 1)

	fields, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "B", fields[0].Label)
	assert.Equal(t, "A", fields[1].Label)
}

func TestValidateValueDispatchesByType(t *testing.T) {
	number := &models.CustomField{Label: "Price", FieldType: enums.FieldTypeNumber}
	require.NoError(t, ValidateValue(number, types.ScalarValue("12.50")))
	require.Error(t, ValidateValue(number, types.ScalarValue("twelve")))
	require.NoError(t, ValidateValue(number, types.ScalarValue("")), "empty clears the field")

	dropdown := &models.CustomField{Label: "Size", FieldType: enums.FieldTypeDropdown, Options: []string{"Small", "Large"}}
	require.NoError(t, ValidateValue(dropdown, types.ScalarValue("Small")))
	require.Error(t, ValidateValue(dropdown, types.ScalarValue("Medium")))
	require.Error(t, ValidateValue(dropdown, types.ListValue("Small")), "dropdowns hold one value")

	checkbox := &models.CustomField{Label: "Tags", FieldType: enums.FieldTypeCheckbox, Options: []string{"New", "Sale"}}
	require.NoError(t, ValidateValue(checkbox, types.ListValue("New", "Sale")))
	require.Error(t, ValidateValue(checkbox, types.ListValue("Clearance")))
	require.Error(t, ValidateValue(checkbox, types.ScalarValue("New")), "checkboxes hold lists")
}

func TestDefaultValueShape(t *testing.T) {
	assert.True(t, DefaultValue(enums.FieldTypeCheckbox).IsList())
	assert.True(t, DefaultValue(enums.FieldTypeMultiselect).IsList())
	assert.False(t, DefaultValue(enums.FieldTypeText).IsList())
	assert.True(t, DefaultValue(enums.FieldTypeText).IsZero())
}
