package transition

import (
	"context"
	"fmt"
	"time"

	"vetflow/internal/audit"
	"vetflow/internal/check"
	"vetflow/internal/notify"
	"vetflow/internal/transition/metrics"
	dErrors "vetflow/pkg/domain-errors"
)

// Applied describes the single transition an engine pass performed.
type Applied struct {
	Rule string
	From check.Status
	To   check.Status
}

// Engine evaluates checks against the rule table and applies at most one
// transition per pass. Designed to be called repeatedly as new evidence
// arrives: a pass with no matching rule is a no-op, not an error, and a
// repeated pass with unchanged evidence appends nothing.
//
// Callers must serialize passes per check; the first-match-wins guarantee
// assumes no concurrent writer for the same check.
type Engine struct {
	rules    []Rule
	checks   check.Store
	auditLog *audit.Publisher
	notifier notify.Notifier
	metrics  *metrics.Metrics

	// reviewers receive adverse-outcome notifications when a check has no
	// assigned reviewer yet.
	reviewers []string
}

func NewEngine(
	checks check.Store,
	auditLog *audit.Publisher,
	notifier notify.Notifier,
	m *metrics.Metrics,
	reviewers []string,
) *Engine {
	return &Engine{
		rules:     DefaultRules(),
		checks:    checks,
		auditLog:  auditLog,
		notifier:  notifier,
		metrics:   m,
		reviewers: reviewers,
	}
}

// match returns the first rule the check currently satisfies, or nil.
func (e *Engine) match(c *check.Check) *Rule {
	for i := range e.rules {
		r := &e.rules[i]
		if r.From == c.Status && r.When(c) {
			return r
		}
	}
	return nil
}

// Apply runs one evaluation pass over the check. On a match it mutates the
// check (status, entry timestamp, completion date, verdict), persists it,
// appends an automated audit record, and signals notifications. Returns
// (nil, nil) when no rule matches.
func (e *Engine) Apply(ctx context.Context, c *check.Check, now time.Time) (*Applied, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rule := e.match(c)
	if rule == nil {
		return nil, nil
	}

	prev := c.Status
	c.Status = rule.To
	c.StatusEnteredAt = now
	if rule.To == check.StatusCompleted || rule.To == check.StatusIssuesFound {
		completed := now
		c.CompletedDate = &completed
		verdict := ComputeVerdict(c.Results)
		c.OverallVerdict = &verdict
	}

	if err := e.checks.Update(ctx, *c); err != nil {
		return nil, fmt.Errorf("persist transition: %w", err)
	}

	if err := e.auditLog.Emit(ctx, audit.Record{
		CheckID:        c.ID,
		CandidateID:    c.CandidateID,
		PreviousStatus: prev,
		NewStatus:      c.Status,
		ChangedBy:      audit.SystemActor,
		ChangedByName:  audit.SystemActor,
		Reason:         rule.Name,
		Timestamp:      now,
		Automated:      true,
	}); err != nil {
		return nil, fmt.Errorf("audit transition: %w", err)
	}

	e.notifyTransition(ctx, c, prev)
	e.metrics.IncrementApplied(rule.Name)

	return &Applied{Rule: rule.Name, From: prev, To: c.Status}, nil
}

// Cancel is the manual transition: always allowed from a non-terminal
// state, requires a reason, and is audited as a human action.
func (e *Engine) Cancel(ctx context.Context, c *check.Check, by, byName, reason string, now time.Time) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "cancellation reason is required")
	}
	if c.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeInvalidState, "cannot cancel check in status %q", c.Status)
	}

	prev := c.Status
	c.Status = check.StatusCancelled
	c.StatusEnteredAt = now
	completed := now
	c.CompletedDate = &completed

	if err := e.checks.Update(ctx, *c); err != nil {
		return fmt.Errorf("persist cancellation: %w", err)
	}

	if err := e.auditLog.Emit(ctx, audit.Record{
		CheckID:        c.ID,
		CandidateID:    c.CandidateID,
		PreviousStatus: prev,
		NewStatus:      check.StatusCancelled,
		ChangedBy:      by,
		ChangedByName:  byName,
		Reason:         reason,
		Timestamp:      now,
		Automated:      false,
	}); err != nil {
		return fmt.Errorf("audit cancellation: %w", err)
	}

	e.metrics.IncrementCancelled()
	return nil
}

func (e *Engine) notifyTransition(ctx context.Context, c *check.Check, prev check.Status) {
	severity := notify.SeverityInfo
	if c.Status == check.StatusIssuesFound {
		severity = notify.SeverityWarning
	}

	base := notify.Notification{
		Category: notify.CategoryStatusChange,
		Severity: severity,
		Title:    fmt.Sprintf("Background check %s", c.Status),
		Message: fmt.Sprintf("Check for %s moved from %s to %s",
			c.CandidateName, prev, c.Status),
		Link: "/checks/" + c.ID.String(),
		Metadata: map[string]string{
			"checkId":       c.ID.String(),
			"candidateName": c.CandidateName,
			"eventKind":     "status_change",
		},
	}

	// Best-effort delivery: notification failures never roll back an
	// already-committed transition.
	initiator := base
	initiator.Recipient = c.InitiatedBy.String()
	_ = e.notifier.Send(ctx, initiator)

	if c.Status != check.StatusIssuesFound {
		return
	}
	if c.ReviewerID != nil {
		n := base
		n.Recipient = c.ReviewerID.String()
		_ = e.notifier.Send(ctx, n)
		return
	}
	for _, r := range e.reviewers {
		n := base
		n.Recipient = r
		_ = e.notifier.Send(ctx, n)
	}
}
