package forms

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/internal/customfields"
	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	"github.com/sitecrm/sitecrm-backend/pkg/enums"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
)

type fixture struct {
	forms  Service
	fields customfields.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.CustomField{}, &models.Form{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	fieldRepo := customfields.NewRepository(conn)
	fieldSvc, err := customfields.NewService(fieldRepo, nil)
	require.NoError(t, err)
	formSvc, err := NewService(NewRepository(conn), fieldRepo, nil)
	require.NoError(t, err)
	return fixture{forms: formSvc, fields: fieldSvc}
}

func TestCreateSnapshotsFieldsInSubmissionOrder(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	weight, err := fx.fields.Save(ctx, customfields.FieldDraft{Label: "Weight", FieldType: "number"})
	require.NoError(t, err)
	size, err := fx.fields.Save(ctx, customfields.FieldDraft{Label: "Size", FieldType: "dropdown", Options: []string{"S", "L"}})
	require.NoError(t, err)

	form, err := fx.forms.Create(ctx, FormDraft{
		Category: "Produce",
		Name:     "Produce form",
		Type:     "catalog",
		FieldIDs: []uuid.UUID{size.ID, weight.ID},
	})
	require.NoError(t, err)

	snapshot := form.Fields.Data()
	require.Len(t, snapshot, 2)
	assert.Equal(t, size.ID, snapshot[0].FieldID)
	assert.Equal(t, 0, snapshot[0].Order)
	assert.Equal(t, enums.FieldTypeDropdown, snapshot[0].FieldType)
	assert.Equal(t, []string{"S", "L"}, snapshot[0].Options)
	assert.Equal(t, weight.ID, snapshot[1].FieldID)
	assert.Equal(t, 1, snapshot[1].Order)
}

func TestSnapshotSurvivesRegistryDrift(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	field, err := fx.fields.Save(ctx, customfields.FieldDraft{Label: "Weight", FieldType: "number"})
	require.NoError(t, err)

	form, err := fx.forms.Create(ctx, FormDraft{
		Category: "Produce", Name: "Produce form", Type: "catalog",
		FieldIDs: []uuid.UUID{field.ID},
	})
	require.NoError(t, err)

	_, err = fx.fields.Save(ctx, customfields.FieldDraft{ID: &field.ID, Label: "Net Weight", FieldType: "number"})
	require.NoError(t, err)

	reloaded, err := fx.forms.Get(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weight", reloaded.Fields.Data()[0].Label, "the snapshot keeps the label it was taken with")
}

func TestCreateRequiresCategoryNameType(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.forms.Create(context.Background(), FormDraft{Category: "Produce", Name: " ", Type: "catalog"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateRejectsUnknownFieldReference(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.forms.Create(context.Background(), FormDraft{
		Category: "Produce", Name: "Produce form", Type: "catalog",
		FieldIDs: []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestFindByCategoryMatchesExactly(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.forms.Create(ctx, FormDraft{Category: "Produce", Name: "Produce form", Type: "catalog"})
	require.NoError(t, err)

	form, err := fx.forms.FindByCategory(ctx, "Produce")
	require.NoError(t, err)
	assert.Equal(t, "Produce", form.Category)

	_, err = fx.forms.FindByCategory(ctx, "produce")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteDoesNotTouchProducts(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	form, err := fx.forms.Create(ctx, FormDraft{Category: "Produce", Name: "Produce form", Type: "catalog"})
	require.NoError(t, err)

	require.NoError(t, fx.forms.Delete(ctx, form.ID))
	err = fx.forms.Delete(ctx, form.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
