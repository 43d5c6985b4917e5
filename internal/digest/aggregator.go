package digest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"vetflow/internal/audit"
	"vetflow/internal/calendar"
	"vetflow/internal/check"
	id "vetflow/pkg/domain"
	dErrors "vetflow/pkg/domain-errors"
	"vetflow/pkg/platform/sentinel"
)

// Staleness thresholds for pending actions. A check below its threshold is
// considered normal churn and kept out of the digest.
const (
	consentStaleDays = 3
	overdueDays      = 14
)

// Aggregator computes digest projections. Build performs no mutation and
// is safe to call speculatively for previews.
type Aggregator struct {
	checks   check.Store
	auditLog audit.Store
	prefs    PreferencesStore
}

func NewAggregator(checks check.Store, auditLog audit.Store, prefs PreferencesStore) *Aggregator {
	return &Aggregator{checks: checks, auditLog: auditLog, prefs: prefs}
}

// Build computes the digest for one user at the given instant. Returns
// (nil, nil) when the user's digest is disabled.
func (a *Aggregator) Build(ctx context.Context, userID id.UserID, now time.Time) (*Data, error) {
	prefs, err := a.prefs.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no digest preferences for user")
		}
		return nil, err
	}
	return a.build(ctx, *prefs, now)
}

func (a *Aggregator) build(ctx context.Context, prefs Preferences, now time.Time) (*Data, error) {
	window := prefs.Frequency.Window()
	if window == 0 {
		return nil, nil
	}

	data := &Data{
		UserID:      prefs.UserID,
		PeriodStart: now.Add(-window),
		PeriodEnd:   now,
	}

	if prefs.IncludeStatusChanges {
		changes, err := a.auditLog.ListByTimeRange(ctx, data.PeriodStart, data.PeriodEnd)
		if err != nil {
			return nil, fmt.Errorf("digest status changes: %w", err)
		}
		data.StatusChanges = changes
	}

	checks, err := a.checks.List(ctx, check.Filter{})
	if err != nil {
		return nil, fmt.Errorf("digest checks: %w", err)
	}

	if prefs.IncludePendingActions {
		data.PendingActions = pendingActions(checks, now)
	}
	data.Summary = summarize(checks)

	return data, nil
}

// pendingActions scans the current check set for items needing attention,
// sorted by priority, ties broken by longer days-pending first.
func pendingActions(checks []check.Check, now time.Time) []PendingAction {
	var actions []PendingAction
	for _, c := range checks {
		days := calendar.CalendarDaysBetween(c.EnteredStatusAt(), now)

		switch {
		case c.Status == check.StatusPendingConsent && days >= consentStaleDays:
			actions = append(actions, PendingAction{
				CheckID:       c.ID,
				CandidateName: c.CandidateName,
				Kind:          ActionConsentStale,
				Description:   fmt.Sprintf("Consent for %s outstanding for %d days", c.CandidateName, days),
				DaysPending:   days,
				Priority:      consentPriority(days),
			})
		case c.Status == check.StatusIssuesFound && c.ReviewerID == nil:
			actions = append(actions, PendingAction{
				CheckID:       c.ID,
				CandidateName: c.CandidateName,
				Kind:          ActionReviewUnassigned,
				Description:   fmt.Sprintf("Adverse result for %s has no reviewer", c.CandidateName),
				DaysPending:   days,
				Priority:      ActionPriorityHigh,
			})
		case c.Status == check.StatusInProgress && days > overdueDays:
			actions = append(actions, PendingAction{
				CheckID:       c.ID,
				CandidateName: c.CandidateName,
				Kind:          ActionCheckOverdue,
				Description:   fmt.Sprintf("Check for %s in progress for %d days", c.CandidateName, days),
				DaysPending:   days,
				Priority:      overduePriority(days),
			})
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Priority.rank() != actions[j].Priority.rank() {
			return actions[i].Priority.rank() < actions[j].Priority.rank()
		}
		return actions[i].DaysPending > actions[j].DaysPending
	})
	return actions
}

func consentPriority(days int) ActionPriority {
	if days >= 7 {
		return ActionPriorityHigh
	}
	return ActionPriorityMedium
}

func overduePriority(days int) ActionPriority {
	if days > 21 {
		return ActionPriorityHigh
	}
	return ActionPriorityMedium
}

func summarize(checks []check.Check) Summary {
	s := Summary{Total: len(checks)}
	for _, c := range checks {
		switch c.Status {
		case check.StatusCompleted:
			s.Completed++
		case check.StatusInProgress:
			s.InProgress++
		case check.StatusIssuesFound:
			s.IssuesFound++
		case check.StatusPendingConsent:
			s.PendingConsent++
		}
	}
	return s
}
