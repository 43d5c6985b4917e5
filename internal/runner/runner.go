// Package runner drives the periodic processing cycles: the transition
// sweep, the escalation scan, and digest dispatch. Each cycle runs
// run-to-completion on its own ticker, so two instances of the same cycle
// never overlap and the engine's single-writer assumption holds.
package runner

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vetflow/internal/platform/clock"
)

// Cycle is one periodic unit of work. Run receives the injected "now" so
// cycles stay deterministic under test.
type Cycle struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, now time.Time) error
}

// Runner schedules cycles until its context is cancelled.
type Runner struct {
	cycles []Cycle
	clock  clock.Clock
	logger *slog.Logger
}

func New(clk clock.Clock, logger *slog.Logger, cycles ...Cycle) *Runner {
	return &Runner{cycles: cycles, clock: clk, logger: logger}
}

// Run starts one goroutine per cycle and blocks until the context is
// cancelled. Cycle errors are logged and the cycle keeps its cadence; a
// transient store failure must not kill the scheduler.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range r.cycles {
		g.Go(func() error {
			r.loop(ctx, c)
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) loop(ctx context.Context, c Cycle) {
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	r.runOnce(ctx, c)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx, c)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, c Cycle) {
	started := r.clock.Now()
	if err := c.Run(ctx, started); err != nil {
		r.logger.Error("processing cycle failed",
			"cycle", c.Name,
			"error", err)
		return
	}
	r.logger.Debug("processing cycle complete",
		"cycle", c.Name,
		"duration_ms", time.Since(started).Milliseconds())
}
