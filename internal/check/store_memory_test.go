package check

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vetflow/pkg/domain"
	"vetflow/pkg/platform/sentinel"
)

func newStoredCheck(status Status) Check {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	return Check{
		ID:              id.NewCheckID(),
		CandidateID:     id.CandidateID(uuid.New()),
		CandidateName:   "Alex Kim",
		Status:          status,
		StatusEnteredAt: now,
		RequiredTypes:   []Type{TypeCriminal},
		InitiatedDate:   now,
		InitiatedBy:     id.UserID(uuid.New()),
	}
}

func TestInMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	c := newStoredCheck(StatusPendingConsent)

	require.NoError(t, store.Create(ctx, c))
	assert.ErrorIs(t, store.Create(ctx, c), sentinel.ErrConflict)

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.CandidateName, got.CandidateName)

	_, err = store.Get(ctx, id.NewCheckID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	got.Status = StatusInProgress
	require.NoError(t, store.Update(ctx, *got))
	got, err = store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)

	missing := newStoredCheck(StatusInProgress)
	assert.ErrorIs(t, store.Update(ctx, missing), sentinel.ErrNotFound)
}

// Stored state must be isolated from caller mutations.
func TestInMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	c := newStoredCheck(StatusInProgress)
	c.Results = []Result{{Type: TypeCriminal, Classification: ClassificationPending}}
	require.NoError(t, store.Create(ctx, c))

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	got.Results[0].Classification = ClassificationNotClear

	again, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, ClassificationPending, again.Results[0].Classification)
}

func TestInMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	pending := newStoredCheck(StatusPendingConsent)
	progress := newStoredCheck(StatusInProgress)
	done := newStoredCheck(StatusCompleted)
	for _, c := range []Check{pending, progress, done} {
		require.NoError(t, store.Create(ctx, c))
	}

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := store.List(ctx, Filter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	byStatus, err := store.List(ctx, Filter{Status: StatusInProgress})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, progress.ID, byStatus[0].ID)

	byCandidate, err := store.List(ctx, Filter{CandidateID: pending.CandidateID})
	require.NoError(t, err)
	require.Len(t, byCandidate, 1)
	assert.Equal(t, pending.ID, byCandidate[0].ID)
}
