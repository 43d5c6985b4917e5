// Package sla measures elapsed and remaining time for checks against
// per-status service-level targets, using business-day or calendar-day
// counting. Evaluation is pure: every function takes an explicit "now".
package sla

import (
	"time"

	"vetflow/internal/check"
	id "vetflow/pkg/domain"
	dErrors "vetflow/pkg/domain-errors"
)

// Classification buckets a check's SLA consumption for dashboards and
// notification routing.
type Classification string

const (
	ClassOnTrack  Classification = "on_track"
	ClassWarning  Classification = "warning"
	ClassCritical Classification = "critical"
	ClassBreached Classification = "breached"
)

// Config is the service-level target for one check status. Administratively
// editable data; immutable for the duration of an evaluation cycle.
type Config struct {
	Status           check.Status
	TargetDays       int
	BusinessDaysOnly bool

	// Thresholds are percent-complete cutoffs, warning < critical.
	// Values above 100 are allowed (alerts only after the target passes).
	WarningThresholdPercent  int
	CriticalThresholdPercent int

	NotifyInitiator bool
	NotifyReviewer  bool
	NotifyAdmin     bool

	Enabled bool
}

// Validate enforces the constraints an administrator-supplied config must
// satisfy before it is accepted. Errors: CodeInvalidInput with a message
// suitable for the admin surface.
func (c Config) Validate() error {
	if _, err := check.ParseStatus(string(c.Status)); err != nil {
		return err
	}
	if c.TargetDays < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "target days must be at least 1")
	}
	if c.WarningThresholdPercent < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "warning threshold cannot be negative")
	}
	if c.WarningThresholdPercent >= c.CriticalThresholdPercent {
		return dErrors.New(dErrors.CodeInvalidInput, "warning threshold must be below critical threshold")
	}
	return nil
}

// Status is the computed SLA projection for one check. It is never
// persisted; callers recompute it from (check, config, now) at any cadence.
type Status struct {
	CheckID       id.CheckID
	DaysElapsed   int
	TargetDate    time.Time
	DaysRemaining int
	// PercentComplete is capped at 150 for display stability. Breach
	// detection uses day counts, not this capped figure.
	PercentComplete int
	Classification  Classification
	Breached        bool
	BreachedDate    *time.Time
}
