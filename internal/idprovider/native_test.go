package idprovider

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNative_Generate_ProducesParsableUUIDs(t *testing.T) {
	n := NewNative("")
	id, err := n.Generate(context.Background())
	require.NoError(t, err)

	s, ok := id.(string)
	require.True(t, ok)
	_, err = uuid.Parse(s)
	assert.NoError(t, err)
}

func TestNative_Generate_NeverRepeats(t *testing.T) {
	n := NewNative("")
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := n.Generate(context.Background())
		require.NoError(t, err)
		s := id.(string)
		assert.False(t, seen[s])
		seen[s] = true
	}
}

func TestNative_Canonicalize_AcceptsStringAndUUID(t *testing.T) {
	n := NewNative("")
	id := uuid.New()

	fromString, err := n.Canonicalize(id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), fromString)

	fromUUID, err := n.Canonicalize(id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), fromUUID)
}

func TestNative_Canonicalize_RejectsInvalid(t *testing.T) {
	n := NewNative("")
	_, err := n.Canonicalize("not-a-uuid")
	assert.Error(t, err)

	_, err = n.Canonicalize(42)
	assert.Error(t, err)
}

func TestNative_Defaults(t *testing.T) {
	n := NewNative("")
	assert.Equal(t, DefaultNativeFieldName, n.FieldName())

	n2 := NewNative("uuid")
	assert.Equal(t, "uuid", n2.FieldName())
}
