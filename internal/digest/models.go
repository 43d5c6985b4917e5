// Package digest computes periodic rollups of status changes and
// outstanding actions for subscribed users. Aggregation is read-only;
// send scheduling is tracked separately via lastSentAt.
package digest

import (
	"time"

	"vetflow/internal/audit"
	id "vetflow/pkg/domain"
	dErrors "vetflow/pkg/domain-errors"
)

// Frequency selects the reporting window.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyDisabled Frequency = "disabled"
)

// Window returns the reporting window duration, zero for disabled.
func (f Frequency) Window() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// ParseFrequency constructs a Frequency from external input.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyDisabled:
		return Frequency(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid digest frequency %q", s)
	}
}

// Preferences is one user's digest subscription.
type Preferences struct {
	UserID    id.UserID
	Frequency Frequency
	// Destination is an opaque delivery address for the external
	// collaborator (email, webhook, channel id).
	Destination           string
	IncludeStatusChanges  bool
	IncludePendingActions bool
	// LastSentAt drives due computation; nil means never sent.
	LastSentAt *time.Time
}

// ActionPriority orders pending actions in the digest.
type ActionPriority string

const (
	ActionPriorityHigh   ActionPriority = "high"
	ActionPriorityMedium ActionPriority = "medium"
	ActionPriorityLow    ActionPriority = "low"
)

// rank is used for sorting, high first.
func (p ActionPriority) rank() int {
	switch p {
	case ActionPriorityHigh:
		return 0
	case ActionPriorityMedium:
		return 1
	default:
		return 2
	}
}

// ActionKind names why a check needs attention.
type ActionKind string

const (
	ActionConsentStale     ActionKind = "consent_stale"
	ActionReviewUnassigned ActionKind = "review_unassigned"
	ActionCheckOverdue     ActionKind = "check_overdue"
)

// PendingAction is one outstanding item surfaced in a digest.
type PendingAction struct {
	CheckID       id.CheckID
	CandidateName string
	Kind          ActionKind
	Description   string
	DaysPending   int
	Priority      ActionPriority
}

// Summary counts the full current check set, not just the window.
type Summary struct {
	Total          int
	Completed      int
	InProgress     int
	IssuesFound    int
	PendingConsent int
}

// Data is the computed digest for one user, ready for an external
// formatter. A read-only projection, never persisted.
type Data struct {
	UserID         id.UserID
	PeriodStart    time.Time
	PeriodEnd      time.Time
	StatusChanges  []audit.Record
	PendingActions []PendingAction
	Summary        Summary
}

// Empty reports whether the digest carries nothing worth sending.
func (d Data) Empty() bool {
	return len(d.StatusChanges) == 0 && len(d.PendingActions) == 0
}
