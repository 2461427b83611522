package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValueScalarJSON(t *testing.T) {
	raw, err := json.Marshal(ScalarValue("42"))
	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(raw))

	var parsed FieldValue
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.False(t, parsed.IsList())
	assert.Equal(t, "42", parsed.Scalar())
}

func TestFieldValueListJSON(t *testing.T) {
	raw, err := json.Marshal(ListValue("Red", "Blue"))
	require.NoError(t, err)
	assert.Equal(t, `["Red","Blue"]`, string(raw))

	var parsed FieldValue
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.True(t, parsed.IsList())
	assert.Equal(t, []string{"Red", "Blue"}, parsed.List())
}

func TestFieldValueEmptyListMarshalsAsArray(t *testing.T) {
	raw, err := json.Marshal(ListValue())
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))
}

func TestFieldValueRejectsOtherShapes(t *testing.T) {
	var parsed FieldValue
	assert.Error(t, json.Unmarshal([]byte(`{"nested":true}`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`17`), &parsed))
}

func TestFieldValueEqual(t *testing.T) {
	assert.True(t, ScalarValue("a").Equal(ScalarValue("a")))
	assert.False(t, ScalarValue("a").Equal(ScalarValue("b")))
	assert.False(t, ScalarValue("a").Equal(ListValue("a")))
	assert.True(t, ListValue("a", "b").Equal(ListValue("a", "b")))
	assert.False(t, ListValue("a", "b").Equal(ListValue("b", "a")))
}

func TestFieldValueIsZero(t *testing.T) {
	assert.True(t, ScalarValue("").IsZero())
	assert.True(t, ListValue().IsZero())
	assert.False(t, ScalarValue("x").IsZero())
	assert.False(t, ListValue("x").IsZero())
}
