package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vetflow/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCheckID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCheckID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseCheckID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseCheckID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, CheckID(validUUID), id)
	})

	t.Run("applies to all ID kinds", func(t *testing.T) {
		_, err := ParseCandidateID("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		_, err = ParseUserID("nope")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		_, err = ParseEventID(uuid.Nil.String())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestIDGeneration(t *testing.T) {
	id := NewCheckID()
	assert.False(t, id.IsNil())

	parsed, err := ParseCheckID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	assert.NotEqual(t, NewEventID(), NewEventID())
}

// TestTypeDistinction verifies the compiler enforces type safety.
// If this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	checkID := CheckID(uuid.New())
	candidateID := CandidateID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ CheckID = candidateID   // compile error
	// var _ CandidateID = checkID   // compile error

	assert.NotEqual(t, uuid.UUID(checkID), uuid.UUID(candidateID))
}
