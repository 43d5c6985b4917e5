package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetflow/internal/platform/clock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ExecutesImmediatelyThenOnCadence(t *testing.T) {
	var runs atomic.Int64
	r := New(clock.System{}, discardLogger(), Cycle{
		Name:     "sweep",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context, time.Time) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestRun_CycleErrorDoesNotStopScheduler(t *testing.T) {
	var runs atomic.Int64
	r := New(clock.System{}, discardLogger(), Cycle{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context, time.Time) error {
			runs.Add(1)
			return errors.New("store unavailable")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestRun_EachCycleRunsIndependently(t *testing.T) {
	var fast, slow atomic.Int64
	r := New(clock.System{}, discardLogger(),
		Cycle{Name: "fast", Interval: 5 * time.Millisecond, Run: func(context.Context, time.Time) error {
			fast.Add(1)
			return nil
		}},
		Cycle{Name: "slow", Interval: time.Hour, Run: func(context.Context, time.Time) error {
			slow.Add(1)
			return nil
		}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return fast.Load() >= 3 }, time.Second, 2*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	// The hour-cadence cycle still got its startup run.
	assert.Equal(t, int64(1), slow.Load())
}
