package digest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vetflow/internal/audit"
	"vetflow/internal/check"
	"vetflow/internal/notify"
	"vetflow/internal/notify/mocks"
	id "vetflow/pkg/domain"
)

func TestDue(t *testing.T) {
	lastMorning := now.Add(-25 * time.Hour)
	recently := now.Add(-2 * time.Hour)

	tests := []struct {
		name  string
		prefs Preferences
		want  bool
	}{
		{"never sent is due", Preferences{Frequency: FrequencyDaily}, true},
		{"window elapsed is due", Preferences{Frequency: FrequencyDaily, LastSentAt: &lastMorning}, true},
		{"window not elapsed is not due", Preferences{Frequency: FrequencyDaily, LastSentAt: &recently}, false},
		{"weekly with daily gap is not due", Preferences{Frequency: FrequencyWeekly, LastSentAt: &lastMorning}, false},
		{"disabled is never due", Preferences{Frequency: FrequencyDisabled}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, due(tt.prefs, now))
		})
	}
}

func newDispatcherFixture(notifier notify.Notifier) (*digestFixture, *Dispatcher) {
	f := newFixture()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return f, NewDispatcher(f.agg, f.prefs, notifier, logger)
}

func TestDispatchDue_SendsAndMarks(t *testing.T) {
	ctx := context.Background()
	captured := notify.NewCaptureNotifier()
	f, d := newDispatcherFixture(captured)

	userID := f.subscribe(t, FrequencyDaily)
	f.seedCheck(t, check.StatusPendingConsent, 10, nil)

	sent, err := d.DispatchDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	notifications := captured.Sent()
	require.Len(t, notifications, 1)
	assert.Equal(t, "ops@example.com", notifications[0].Recipient)
	assert.Equal(t, notify.CategoryDigest, notifications[0].Category)

	prefs, err := f.prefs.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, prefs.LastSentAt)
	assert.Equal(t, now, *prefs.LastSentAt)

	// The same instant is no longer due.
	sent, err = d.DispatchDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

// An empty digest is skipped entirely and lastSentAt stays untouched, so
// the next cycle re-checks instead of silently consuming the window.
func TestDispatchDue_SkipsEmptyDigests(t *testing.T) {
	ctx := context.Background()
	captured := notify.NewCaptureNotifier()
	f, d := newDispatcherFixture(captured)

	userID := f.subscribe(t, FrequencyDaily)

	sent, err := d.DispatchDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, captured.Sent())

	prefs, err := f.prefs.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, prefs.LastSentAt)
}

func TestDispatchDue_FailedDeliveryRetriesNextCycle(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return(errors.New("delivery down"))
	f, d := newDispatcherFixture(notifier)

	userID := f.subscribe(t, FrequencyDaily)
	f.seedCheck(t, check.StatusPendingConsent, 10, nil)

	sent, err := d.DispatchDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	prefs, err := f.prefs.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, prefs.LastSentAt, "failed delivery must not consume the window")
}

func TestDispatchDue_StatusChangesOnlyDigest(t *testing.T) {
	ctx := context.Background()
	captured := notify.NewCaptureNotifier()
	f, d := newDispatcherFixture(captured)

	f.subscribe(t, FrequencyDaily)
	require.NoError(t, f.auditLog.Append(ctx, audit.Record{
		ID:          id.NewEventID(),
		CheckID:     id.CheckID(uuid.New()),
		CandidateID: id.CandidateID(uuid.New()),
		NewStatus:   check.StatusCompleted,
		ChangedBy:   audit.SystemActor,
		Timestamp:   now.Add(-time.Hour),
		Automated:   true,
	}))

	sent, err := d.DispatchDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}
