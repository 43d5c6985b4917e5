// Package check holds the background-check domain model: the Check
// aggregate, its status enumeration, result classifications, and the
// store contract used by the processing components.
package check

import (
	"time"

	id "vetflow/pkg/domain"
	dErrors "vetflow/pkg/domain-errors"
)

// Status is the lifecycle state of a background check.
// Invariant: the value must be one of the supported statuses.
//
// Usage: construct via ParseStatus at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Status string

const (
	StatusNotStarted     Status = "not_started"
	StatusPendingConsent Status = "pending_consent"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusIssuesFound    Status = "issues_found"
	StatusCancelled      Status = "cancelled"
)

// validStatuses is the single source of truth for valid check statuses.
var validStatuses = map[Status]bool{
	StatusNotStarted:     true,
	StatusPendingConsent: true,
	StatusInProgress:     true,
	StatusCompleted:      true,
	StatusIssuesFound:    true,
	StatusCancelled:      true,
}

// ParseStatus constructs a Status from external input.
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := Status(s)
	if !validStatuses[st] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid status %q", s)
	}
	return st, nil
}

// IsTerminal reports whether no further automatic transitions apply.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusIssuesFound || s == StatusCancelled
}

func (s Status) String() string { return string(s) }

// Type is a category of verification that may be required on a check.
type Type string

const (
	TypeCriminal   Type = "criminal"
	TypeEmployment Type = "employment"
	TypeEducation  Type = "education"
	TypeReference  Type = "reference"
	TypeIdentity   Type = "identity"
	TypeCredit     Type = "credit"
)

var validTypes = map[Type]bool{
	TypeCriminal:   true,
	TypeEmployment: true,
	TypeEducation:  true,
	TypeReference:  true,
	TypeIdentity:   true,
	TypeCredit:     true,
}

// ParseType constructs a Type from external input.
func ParseType(s string) (Type, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "check type cannot be empty")
	}
	t := Type(s)
	if !validTypes[t] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid check type %q", s)
	}
	return t, nil
}

func (t Type) String() string { return string(t) }

// Classification is the outcome a provider reports for a single check type.
// ClassificationPending marks a result that has been started but not
// concluded; all other values are terminal.
type Classification string

const (
	ClassificationPending        Classification = "pending"
	ClassificationClear          Classification = "clear"
	ClassificationReviewRequired Classification = "review_required"
	ClassificationNotClear       Classification = "not_clear"
)

var validClassifications = map[Classification]bool{
	ClassificationPending:        true,
	ClassificationClear:          true,
	ClassificationReviewRequired: true,
	ClassificationNotClear:       true,
}

// ParseClassification constructs a Classification from external input.
func ParseClassification(s string) (Classification, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "classification cannot be empty")
	}
	c := Classification(s)
	if !validClassifications[c] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid classification %q", s)
	}
	return c, nil
}

// IsTerminal reports whether the provider has concluded this result.
func (c Classification) IsTerminal() bool { return c != ClassificationPending }

// Verdict is the aggregate outcome across all results of a check.
type Verdict string

const (
	VerdictClear       Verdict = "clear"
	VerdictConditional Verdict = "conditional"
	VerdictNotClear    Verdict = "not_clear"
)

// Result is a provider outcome for one check type on one check.
type Result struct {
	Type           Type
	Classification Classification
	CompletedAt    *time.Time
	Notes          string
}

// Check is a single candidate's background-verification workflow instance.
//
// Invariants:
//   - CompletedDate is set iff Status is completed, issues_found, or cancelled.
//   - OverallVerdict is set only when Status is completed or issues_found.
//
// Checks are mutated exclusively through the transition engine (or explicit
// cancellation) and are never deleted, only terminal.
type Check struct {
	ID            id.CheckID
	CandidateID   id.CandidateID
	CandidateName string

	Status Status
	// StatusEnteredAt records when the check entered its current status.
	// Used for per-status day counting; InitiatedDate is the fallback for
	// rows created before this field existed.
	StatusEnteredAt time.Time

	RequiredTypes []Type
	Results       []Result

	ConsentGiven bool
	ConsentDate  *time.Time

	InitiatedDate time.Time
	InitiatedBy   id.UserID
	CompletedDate *time.Time

	OverallVerdict *Verdict
	ReviewerID     *id.UserID
	ReviewerNotes  string
}

// ResultFor returns the result recorded for the given type, or nil.
func (c *Check) ResultFor(t Type) *Result {
	for i := range c.Results {
		if c.Results[i].Type == t {
			return &c.Results[i]
		}
	}
	return nil
}

// AllRequiredResolved reports whether every required type has a result and
// every result has a terminal classification. False when no result exists.
func (c *Check) AllRequiredResolved() bool {
	if len(c.Results) == 0 {
		return false
	}
	for _, t := range c.RequiredTypes {
		r := c.ResultFor(t)
		if r == nil || !r.Classification.IsTerminal() {
			return false
		}
	}
	for _, r := range c.Results {
		if !r.Classification.IsTerminal() {
			return false
		}
	}
	return true
}

// HasClassification reports whether any result carries the classification.
func (c *Check) HasClassification(cl Classification) bool {
	for _, r := range c.Results {
		if r.Classification == cl {
			return true
		}
	}
	return false
}

// EnteredStatusAt returns when the check entered its current status,
// falling back to InitiatedDate for legacy rows without the timestamp.
func (c *Check) EnteredStatusAt() time.Time {
	if !c.StatusEnteredAt.IsZero() {
		return c.StatusEnteredAt
	}
	return c.InitiatedDate
}

// Validate enforces the fields day-counting and processing depend on.
// Errors: CodeInvalidInput; a missing InitiatedDate would silently corrupt
// SLA arithmetic, so it is rejected rather than defaulted.
func (c *Check) Validate() error {
	if c.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "check id is required")
	}
	if c.CandidateID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "candidate id is required")
	}
	if c.InitiatedDate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "initiated date is required")
	}
	if !validStatuses[c.Status] {
		return dErrors.Newf(dErrors.CodeInvalidInput, "invalid status %q", c.Status)
	}
	if len(c.RequiredTypes) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one check type is required")
	}
	return nil
}
