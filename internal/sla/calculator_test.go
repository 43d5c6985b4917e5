package sla

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetflow/internal/check"
	id "vetflow/pkg/domain"
	dErrors "vetflow/pkg/domain-errors"
)

// monday is a fixed reference Monday so business-day arithmetic is stable.
var monday = time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

func newCheckInStatus(status check.Status, entered time.Time) check.Check {
	return check.Check{
		ID:              id.NewCheckID(),
		Status:          status,
		StatusEnteredAt: entered,
		InitiatedDate:   entered,
	}
}

func TestEvaluate_BusinessDays(t *testing.T) {
	cfg := Config{
		Status:                   check.StatusInProgress,
		TargetDays:               5,
		BusinessDaysOnly:         true,
		WarningThresholdPercent:  60,
		CriticalThresholdPercent: 90,
		Enabled:                  true,
	}
	c := newCheckInStatus(check.StatusInProgress, monday)

	tests := []struct {
		name         string
		now          time.Time
		wantElapsed  int
		wantPercent  int
		wantClass    Classification
		wantBreached bool
	}{
		{
			name:        "same day counts zero",
			now:         monday.Add(6 * time.Hour),
			wantElapsed: 0,
			wantPercent: 0,
			wantClass:   ClassOnTrack,
		},
		{
			name:        "two business days on track",
			now:         monday.AddDate(0, 0, 2), // Wednesday
			wantElapsed: 2,
			wantPercent: 40,
			wantClass:   ClassOnTrack,
		},
		{
			name:        "three business days hits warning threshold",
			now:         monday.AddDate(0, 0, 3), // Thursday
			wantElapsed: 3,
			wantPercent: 60,
			wantClass:   ClassWarning,
		},
		{
			name:        "weekend days do not count",
			now:         monday.AddDate(0, 0, 6), // Sunday
			wantElapsed: 4,
			wantPercent: 80,
			wantClass:   ClassWarning,
		},
		{
			name:         "following monday is five elapsed and breached",
			now:          monday.AddDate(0, 0, 7),
			wantElapsed:  5,
			wantPercent:  100,
			wantClass:    ClassBreached,
			wantBreached: true,
		},
		{
			name:         "well past target stays breached",
			now:          monday.AddDate(0, 0, 21),
			wantElapsed:  15,
			wantPercent:  150, // capped for display
			wantClass:    ClassBreached,
			wantBreached: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Evaluate(c, cfg, tt.now)
			assert.Equal(t, tt.wantElapsed, st.DaysElapsed)
			assert.Equal(t, tt.wantPercent, st.PercentComplete)
			assert.Equal(t, tt.wantClass, st.Classification)
			assert.Equal(t, tt.wantBreached, st.Breached)
			if tt.wantBreached {
				require.NotNil(t, st.BreachedDate)
				assert.Equal(t, st.TargetDate, *st.BreachedDate)
			} else {
				assert.Nil(t, st.BreachedDate)
			}
		})
	}
}

func TestEvaluate_CalendarDays(t *testing.T) {
	cfg := Config{
		Status:                   check.StatusInProgress,
		TargetDays:               7,
		BusinessDaysOnly:         false,
		WarningThresholdPercent:  60,
		CriticalThresholdPercent: 90,
		Enabled:                  true,
	}
	c := newCheckInStatus(check.StatusInProgress, monday)

	st := Evaluate(c, cfg, monday.AddDate(0, 0, 7))
	assert.Equal(t, 7, st.DaysElapsed)
	assert.True(t, st.Breached)
	assert.Equal(t, ClassBreached, st.Classification)

	st = Evaluate(c, cfg, monday.AddDate(0, 0, 3))
	assert.Equal(t, 3, st.DaysElapsed)
	assert.Equal(t, ClassOnTrack, st.Classification)
	assert.Equal(t, 4, st.DaysRemaining)
}

func TestEvaluate_CriticalThreshold(t *testing.T) {
	cfg := Config{
		Status:                   check.StatusInProgress,
		TargetDays:               10,
		BusinessDaysOnly:         false,
		WarningThresholdPercent:  60,
		CriticalThresholdPercent: 90,
		Enabled:                  true,
	}
	c := newCheckInStatus(check.StatusInProgress, monday)

	st := Evaluate(c, cfg, monday.AddDate(0, 0, 9))
	assert.Equal(t, 90, st.PercentComplete)
	assert.Equal(t, ClassCritical, st.Classification)
	assert.False(t, st.Breached)
}

// Breach wins even when thresholds are configured above 100 percent.
func TestEvaluate_BreachBeatsThresholds(t *testing.T) {
	cfg := Config{
		Status:                   check.StatusInProgress,
		TargetDays:               2,
		BusinessDaysOnly:         false,
		WarningThresholdPercent:  110,
		CriticalThresholdPercent: 130,
		Enabled:                  true,
	}
	c := newCheckInStatus(check.StatusInProgress, monday)

	st := Evaluate(c, cfg, monday.AddDate(0, 0, 2))
	assert.Equal(t, ClassBreached, st.Classification)
	assert.True(t, st.Breached)
}

// Classification must only tighten as time passes; a check never moves
// back toward on_track without a status change.
func TestEvaluate_Monotonic(t *testing.T) {
	cfg := Config{
		Status:                   check.StatusInProgress,
		TargetDays:               5,
		BusinessDaysOnly:         true,
		WarningThresholdPercent:  60,
		CriticalThresholdPercent: 90,
		Enabled:                  true,
	}
	c := newCheckInStatus(check.StatusInProgress, monday)

	rank := map[Classification]int{
		ClassOnTrack:  0,
		ClassWarning:  1,
		ClassCritical: 2,
		ClassBreached: 3,
	}
	prev := -1
	for day := 0; day <= 14; day++ {
		st := Evaluate(c, cfg, monday.AddDate(0, 0, day))
		require.GreaterOrEqual(t, rank[st.Classification], prev,
			"classification relaxed on day %d", day)
		prev = rank[st.Classification]
	}
}

func TestEvaluate_LegacyChecksFallBackToInitiatedDate(t *testing.T) {
	cfg := Config{
		Status:           check.StatusInProgress,
		TargetDays:       5,
		BusinessDaysOnly: true,
		Enabled:          true,
	}
	c := check.Check{
		ID:            id.NewCheckID(),
		Status:        check.StatusInProgress,
		InitiatedDate: monday,
	}

	st := Evaluate(c, cfg, monday.AddDate(0, 0, 2))
	assert.Equal(t, 2, st.DaysElapsed)
}

func TestCalculator_For(t *testing.T) {
	ctx := context.Background()
	configs := NewInMemoryConfigStore()
	calc := NewCalculator(configs)

	t.Run("unconfigured status is unmonitored", func(t *testing.T) {
		c := newCheckInStatus(check.StatusCompleted, monday)
		st, err := calc.For(ctx, c, monday)
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("disabled config is unmonitored", func(t *testing.T) {
		cfg := Config{
			Status:                   check.StatusInProgress,
			TargetDays:               5,
			WarningThresholdPercent:  60,
			CriticalThresholdPercent: 90,
			Enabled:                  false,
		}
		require.NoError(t, configs.Put(ctx, cfg))

		c := newCheckInStatus(check.StatusInProgress, monday)
		st, err := calc.For(ctx, c, monday)
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("enabled config evaluates", func(t *testing.T) {
		c := newCheckInStatus(check.StatusPendingConsent, monday)
		st, err := calc.For(ctx, c, monday.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.NotNil(t, st)
		assert.Equal(t, c.ID, st.CheckID)
		assert.Equal(t, 1, st.DaysElapsed)
	})
}

func TestCalculator_Dashboard(t *testing.T) {
	ctx := context.Background()
	calc := NewCalculator(NewInMemoryConfigStore())

	checks := []check.Check{
		newCheckInStatus(check.StatusPendingConsent, monday),
		newCheckInStatus(check.StatusCompleted, monday), // unmonitored
		newCheckInStatus(check.StatusInProgress, monday),
	}
	statuses, err := calc.Dashboard(ctx, checks, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, statuses, 2)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Status:                   check.StatusInProgress,
		TargetDays:               5,
		WarningThresholdPercent:  60,
		CriticalThresholdPercent: 90,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid status", func(c *Config) { c.Status = "nope" }},
		{"zero target days", func(c *Config) { c.TargetDays = 0 }},
		{"negative warning threshold", func(c *Config) { c.WarningThresholdPercent = -1 }},
		{"warning at critical", func(c *Config) { c.WarningThresholdPercent = 90 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}
