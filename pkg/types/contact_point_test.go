package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactPointListAddPromotesFirst(t *testing.T) {
	var list ContactPointList

	list = list.Add(ContactPoint{Value: "a@example.com"})
	require.Len(t, list, 1)
	assert.True(t, list[0].IsPrimary, "first record must auto-promote")

	list = list.Add(ContactPoint{Value: "b@example.com"})
	require.Len(t, list, 2)
	assert.True(t, list[0].IsPrimary)
	assert.False(t, list[1].IsPrimary)
}

func TestContactPointListAddAsPrimaryDemotesOthers(t *testing.T) {
	list := ContactPointList{}.
		Add(ContactPoint{Value: "a@example.com"}).
		Add(ContactPoint{Value: "b@example.com", IsPrimary: true})

	assert.False(t, list[0].IsPrimary)
	assert.True(t, list[1].IsPrimary)
	assertSinglePrimary(t, list)
}

func TestContactPointListRemovePrimaryPromotesNext(t *testing.T) {
	list := ContactPointList{}.
		Add(ContactPoint{Value: "a@example.com"}).
		Add(ContactPoint{Value: "b@example.com"})

	list = list.Remove("a@example.com")
	require.Len(t, list, 1)
	assert.Equal(t, "b@example.com", list[0].Value)
	assert.True(t, list[0].IsPrimary, "removing the primary must promote the first remaining record")
}

func TestContactPointListRemoveLastLeavesNil(t *testing.T) {
	list := ContactPointList{}.Add(ContactPoint{Value: "a@example.com"})
	list = list.Remove("a@example.com")
	assert.Empty(t, list)
}

func TestContactPointListSetPrimary(t *testing.T) {
	list := ContactPointList{}.
		Add(ContactPoint{Value: "a@example.com"}).
		Add(ContactPoint{Value: "b@example.com"}).
		Add(ContactPoint{Value: "c@example.com"})

	list = list.SetPrimary("c@example.com")
	assertSinglePrimary(t, list)
	assert.Equal(t, "c@example.com", list.FindPrimary().Value)

	unknown := list.SetPrimary("missing@example.com")
	assert.Equal(t, list, unknown, "unknown value must leave the list untouched")
}

func TestFindPrimaryLegacyFallback(t *testing.T) {
	// No record flagged primary: index 0 wins. This mirrors how legacy
	// records with flat string lists have always displayed.
	list := ContactPointList{
		{Value: "first@example.com"},
		{Value: "second@example.com"},
	}
	got := list.FindPrimary()
	require.NotNil(t, got)
	assert.Equal(t, "first@example.com", got.Value)

	assert.Nil(t, ContactPointList(nil).FindPrimary())
}

func TestContactPointListDecodesLegacyStrings(t *testing.T) {
	var list ContactPointList
	require.NoError(t, json.Unmarshal([]byte(`["a@example.com","b@example.com"]`), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "a@example.com", list[0].Value)
	assert.False(t, list[0].IsPrimary, "legacy decode must not invent a primary")
	assert.False(t, list[1].IsPrimary)
}

func TestContactPointListDecodesMixedShapes(t *testing.T) {
	var list ContactPointList
	payload := `[{"value":"555-0100","extension":"12","isPrimary":true},"555-0199"]`
	require.NoError(t, json.Unmarshal([]byte(payload), &list))
	require.Len(t, list, 2)
	assert.True(t, list[0].IsPrimary)
	assert.Equal(t, "12", list[0].Extension)
	assert.Equal(t, "555-0199", list[1].Value)
}

func TestMatchString(t *testing.T) {
	list := ContactPointList{
		{Value: "Alice@Example.com"},
		{Value: "bob@example.com"},
	}
	assert.Equal(t, "alice@example.com bob@example.com", list.MatchString())
	assert.Equal(t, "", ContactPointList(nil).MatchString())
}

func assertSinglePrimary(t *testing.T, list ContactPointList) {
	t.Helper()
	count := 0
	for _, point := range list {
		if point.IsPrimary {
			count++
		}
	}
	assert.Equal(t, 1, count, "exactly one record must be primary")
}
