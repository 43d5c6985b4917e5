// Package escalation raises alerts for checks stuck past configured
// day thresholds, with a per-check cooldown so repeated scan cycles do not
// cause notification storms.
package escalation

import (
	"time"

	"vetflow/internal/check"
	id "vetflow/pkg/domain"
	dErrors "vetflow/pkg/domain-errors"
)

// Priority orders escalations for operators.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var validPriorities = map[Priority]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

// DedupWindow is the per-check cooldown between escalation events. A check
// that triggered any rule within this window is skipped by every rule.
const DedupWindow = 24 * time.Hour

// Rule triggers when a check has sat in Status for at least DaysThreshold
// calendar days. Rules are independent: all enabled rules are evaluated
// every cycle.
type Rule struct {
	ID     string
	Name   string
	Status check.Status
	// DaysThreshold is compared against calendar days since the check
	// entered Status.
	DaysThreshold int
	EscalateTo    []string
	// NotifyInitiator adds the check's original initiator to the fan-out.
	NotifyInitiator bool
	Priority        Priority
	Enabled         bool
}

// Validate enforces the constraints an administrator-supplied rule must
// satisfy. Errors: CodeInvalidInput with a message for the admin surface.
func (r Rule) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "rule name is required")
	}
	if _, err := check.ParseStatus(string(r.Status)); err != nil {
		return err
	}
	if r.DaysThreshold < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "days threshold must be at least 1")
	}
	if len(r.EscalateTo) == 0 && !r.NotifyInitiator {
		return dErrors.New(dErrors.CodeInvalidInput, "rule must escalate to at least one target or the initiator")
	}
	if !validPriorities[r.Priority] {
		return dErrors.Newf(dErrors.CodeInvalidInput, "invalid priority %q", r.Priority)
	}
	return nil
}

// Event is the append-only record of one triggered escalation. Created
// only by the processor; mutated only by operator acknowledge/resolve.
type Event struct {
	ID            id.EventID
	RuleID        string
	RuleName      string
	CheckID       id.CheckID
	CandidateName string
	Status        check.Status
	DaysPending   int
	EscalatedTo   []string
	EscalatedAt   time.Time
	Priority      Priority

	Acknowledged   bool
	AcknowledgedBy string
	AcknowledgedAt *time.Time

	Resolved   bool
	ResolvedBy string
	ResolvedAt *time.Time
	Notes      string
}

// DefaultRules cover the common stuck states so escalation works with zero
// configuration.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:              "consent-overdue",
			Name:            "Consent overdue",
			Status:          check.StatusPendingConsent,
			DaysThreshold:   5,
			NotifyInitiator: true,
			Priority:        PriorityMedium,
			Enabled:         true,
		},
		{
			ID:              "check-stalled",
			Name:            "Check stalled in progress",
			Status:          check.StatusInProgress,
			DaysThreshold:   10,
			NotifyInitiator: true,
			Priority:        PriorityHigh,
			Enabled:         true,
		},
		{
			ID:              "issues-unreviewed",
			Name:            "Adverse result awaiting review",
			Status:          check.StatusIssuesFound,
			DaysThreshold:   2,
			NotifyInitiator: false,
			EscalateTo:      []string{"compliance-team"},
			Priority:        PriorityCritical,
			Enabled:         true,
		},
	}
}
