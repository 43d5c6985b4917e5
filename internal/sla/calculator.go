package sla

import (
	"context"
	"time"

	"vetflow/internal/calendar"
	"vetflow/internal/check"
)

// displayCap keeps runaway percentages from destabilizing downstream
// displays; breach detection uses day counts and is unaffected.
const displayCap = 150

// Calculator computes SLA projections. It holds no state beyond the config
// store; evaluation itself is a pure function of (check, config, now).
type Calculator struct {
	configs ConfigStore
}

func NewCalculator(configs ConfigStore) *Calculator {
	return &Calculator{configs: configs}
}

// Evaluate computes the SLA projection for one check against one config.
// Pure and idempotent: safe to call at any cadence.
//
// The measurement window starts when the check entered its current status,
// so time spent in earlier statuses does not count against the current
// status's target.
func Evaluate(c check.Check, cfg Config, now time.Time) Status {
	start := c.EnteredStatusAt()

	var daysElapsed, daysRemaining int
	var targetDate time.Time
	if cfg.BusinessDaysOnly {
		daysElapsed = calendar.BusinessDaysBetween(start, now)
		targetDate = calendar.AddBusinessDays(start, cfg.TargetDays)
		daysRemaining = calendar.BusinessDaysBetween(now, targetDate)
	} else {
		daysElapsed = calendar.CalendarDaysBetween(start, now)
		targetDate = start.AddDate(0, 0, cfg.TargetDays)
		daysRemaining = calendar.CalendarDaysBetween(now, targetDate)
	}

	percent := daysElapsed * 100 / cfg.TargetDays

	st := Status{
		CheckID:         c.ID,
		DaysElapsed:     daysElapsed,
		TargetDate:      targetDate,
		DaysRemaining:   daysRemaining,
		PercentComplete: min(percent, displayCap),
	}

	switch {
	// Breach takes priority over threshold classification, even when an
	// operator configures contradictory thresholds.
	case daysElapsed >= cfg.TargetDays:
		st.Classification = ClassBreached
		st.Breached = true
		st.BreachedDate = &targetDate
	case percent >= cfg.CriticalThresholdPercent:
		st.Classification = ClassCritical
	case percent >= cfg.WarningThresholdPercent:
		st.Classification = ClassWarning
	default:
		st.Classification = ClassOnTrack
	}
	return st
}

// For resolves the config for the check's current status and evaluates it.
// Returns (nil, nil) when no enabled config exists: checks in unconfigured
// statuses are simply unmonitored, not an error.
func (calc *Calculator) For(ctx context.Context, c check.Check, now time.Time) (*Status, error) {
	cfg, err := calc.configs.Get(ctx, c.Status)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	st := Evaluate(c, *cfg, now)
	return &st, nil
}

// Dashboard evaluates every supplied check, skipping unmonitored ones.
// Read-only: safe to run in parallel with processing cycles.
func (calc *Calculator) Dashboard(ctx context.Context, checks []check.Check, now time.Time) ([]Status, error) {
	out := make([]Status, 0, len(checks))
	for _, c := range checks {
		st, err := calc.For(ctx, c, now)
		if err != nil {
			return nil, err
		}
		if st != nil {
			out = append(out, *st)
		}
	}
	return out, nil
}
