package entities

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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Entity{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(newTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestCreateRequiresKindSpecificScalars(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, enums.EntityKindSite, CreateEntityInput{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, enums.EntityKindContact, CreateEntityInput{FirstName: "Ada"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	site, err := svc.Create(ctx, enums.EntityKindSite, CreateEntityInput{Name: "Main St"})
	require.NoError(t, err)
	assert.Equal(t, "Main St", site.Display)

	contact, err := svc.Create(ctx, enums.EntityKindContact, CreateEntityInput{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", contact.Display)
}

func TestGetScopesByKind(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	site, err := svc.Create(ctx, enums.EntityKindSite, CreateEntityInput{Name: "Main St"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, enums.EntityKindGroup, site.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	got, err := svc.Get(ctx, enums.EntityKindSite, site.ID)
	require.NoError(t, err)
	assert.Equal(t, site.ID, got.ID)
}

func TestCreateHealsSubmittedPrimaries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, enums.EntityKindSupplier, CreateEntityInput{
		Name: "Acme",
		Emails: types.ContactPointList{
			{Value: "a@acme.com"},
			{Value: "b@acme.com"},
		},
		Phones: types.ContactPointList{
			{Value: "555-0100", IsPrimary: true},
			{Value: "555-0101", IsPrimary: true},
		},
	})
	require.NoError(t, err)

	assert.True(t, created.Emails[0].IsPrimary, "no submitted primary promotes index 0")
	assert.Equal(t, "a@acme.com", created.PrimaryEmail)
	assert.True(t, created.Phones[0].IsPrimary)
	assert.False(t, created.Phones[1].IsPrimary, "only the first submitted primary survives")
	assert.Equal(t, "555-0100", created.PrimaryPhone)
}

func TestContactPointLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	site, err := svc.Create(ctx, enums.EntityKindSite, CreateEntityInput{Name: "Main St"})
	require.NoError(t, err)

	// First add auto-promotes.
	dto, err := svc.AddContactPoint(ctx, enums.EntityKindSite, site.ID, ChannelEmail, types.ContactPoint{Value: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", dto.PrimaryEmail)

	dto, err = svc.AddContactPoint(ctx, enums.EntityKindSite, site.ID, ChannelEmail, types.ContactPoint{Value: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", dto.PrimaryEmail, "second add must not steal primary")

	// Removing the primary promotes the survivor.
	dto, err = svc.RemoveContactPoint(ctx, enums.EntityKindSite, site.ID, ChannelEmail, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", dto.PrimaryEmail)

	// Round-trip through storage keeps the healed state.
	reloaded, err := svc.Get(ctx, enums.EntityKindSite, site.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Emails, 1)
	assert.True(t, reloaded.Emails[0].IsPrimary)
}

func TestSetPrimaryContactPoint(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	site, err := svc.Create(ctx, enums.EntityKindSite, CreateEntityInput{
		Name: "Main St",
		Phones: types.ContactPointList{
			{Value: "555-0100"},
			{Value: "555-0101"},
		},
	})
	require.NoError(t, err)

	dto, err := svc.SetPrimaryContactPoint(ctx, enums.EntityKindSite, site.ID, ChannelPhone, "555-0101")
	require.NoError(t, err)
	assert.Equal(t, "555-0101", dto.PrimaryPhone)

	primaries := 0
	for _, point := range dto.Phones {
		if point.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestAddContactPointRejectsBlankValue(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	site, err := svc.Create(ctx, enums.EntityKindSite, CreateEntityInput{Name: "Main St"})
	require.NoError(t, err)

	_, err = svc.AddContactPoint(ctx, enums.EntityKindSite, site.ID, ChannelEmail, types.ContactPoint{Value: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, enums.EntityKindGroup, CreateEntityInput{Name: "North"})
	require.NoError(t, err)

	newName := "North Region"
	updated, err := svc.Update(ctx, enums.EntityKindGroup, group.ID, UpdateEntityInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "North Region", updated.Display)

	blank := "  "
	_, err = svc.Update(ctx, enums.EntityKindGroup, group.ID, UpdateEntityInput{Name: &blank})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.NoError(t, svc.Delete(ctx, enums.EntityKindGroup, group.ID))
	err = svc.Delete(ctx, enums.EntityKindGroup, group.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.Delete(ctx, enums.EntityKindGroup, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
