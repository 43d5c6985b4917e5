package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vetflow/internal/calendar"
	"vetflow/internal/check"
	"vetflow/internal/escalation/metrics"
	"vetflow/internal/notify"
	id "vetflow/pkg/domain"
)

// notifyConcurrency bounds the notification fan-out per scan cycle.
const notifyConcurrency = 8

// Summary reports what one scan cycle did.
type Summary struct {
	Evaluated int
	Raised    int
	Deduped   int
}

// Processor runs the escalation scan: every enabled rule against every
// active check, with a per-check 24h cooldown. It holds no cycle state of
// its own; the dedup store is the only cross-cycle memory, kept durable so
// restarts cannot re-alert inside the window.
type Processor struct {
	checks   check.Store
	rules    RuleStore
	events   EventStore
	dedup    DedupStore
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewProcessor(
	checks check.Store,
	rules RuleStore,
	events EventStore,
	dedup DedupStore,
	notifier notify.Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		checks:   checks,
		rules:    rules,
		events:   events,
		dedup:    dedup,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// daysPending counts calendar days the check has spent in its current
// status.
func daysPending(c check.Check, now time.Time) int {
	return calendar.CalendarDaysBetween(c.EnteredStatusAt(), now)
}

// eligible reports whether the (rule, check) pair should trigger.
func eligible(r Rule, c check.Check, now time.Time) bool {
	return r.Enabled && c.Status == r.Status && daysPending(c, now) >= r.DaysThreshold
}

// RunCycle evaluates all enabled rules against all active checks as one
// run-to-completion batch. Callers must not start a second cycle before
// the previous one returns.
func (p *Processor) RunCycle(ctx context.Context, now time.Time) (Summary, error) {
	started := time.Now()
	defer func() {
		p.metrics.ObserveScanDuration(time.Since(started).Seconds())
	}()

	rules, err := p.rules.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list escalation rules: %w", err)
	}
	checks, err := p.checks.List(ctx, check.Filter{})
	if err != nil {
		return Summary{}, fmt.Errorf("list checks: %w", err)
	}

	var summary Summary
	for _, c := range checks {
		for _, r := range rules {
			if !eligible(r, c, now) {
				continue
			}
			summary.Evaluated++

			// Cooldown is per check, not per rule: once any rule fires
			// for a check, every rule stays quiet for the window.
			allowed, err := p.dedup.MarkIfAllowed(ctx, c.ID, now, DedupWindow)
			if err != nil {
				return summary, fmt.Errorf("escalation dedup: %w", err)
			}
			if !allowed {
				summary.Deduped++
				p.metrics.IncrementDeduped()
				break
			}

			if err := p.trigger(ctx, r, c, now); err != nil {
				return summary, err
			}
			summary.Raised++
			p.metrics.IncrementRaised(r.ID)
			break
		}
	}
	return summary, nil
}

// trigger creates the event and fans out notifications.
func (p *Processor) trigger(ctx context.Context, r Rule, c check.Check, now time.Time) error {
	days := daysPending(c, now)

	event := Event{
		ID:            id.NewEventID(),
		RuleID:        r.ID,
		RuleName:      r.Name,
		CheckID:       c.ID,
		CandidateName: c.CandidateName,
		Status:        c.Status,
		DaysPending:   days,
		EscalatedTo:   append([]string{}, r.EscalateTo...),
		EscalatedAt:   now,
		Priority:      r.Priority,
	}
	if err := p.events.Append(ctx, event); err != nil {
		return fmt.Errorf("append escalation event: %w", err)
	}

	recipients := append([]string{}, r.EscalateTo...)
	if r.NotifyInitiator {
		recipients = append(recipients, c.InitiatedBy.String())
	}

	severity := notify.SeverityWarning
	if r.Priority == PriorityCritical {
		severity = notify.SeverityCritical
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(notifyConcurrency)
	for _, recipient := range recipients {
		g.Go(func() error {
			n := notify.Notification{
				Recipient: recipient,
				Category:  notify.CategoryEscalation,
				Severity:  severity,
				Title:     r.Name,
				Message: fmt.Sprintf("Check for %s has been %s for %d days (threshold %d)",
					c.CandidateName, c.Status, days, r.DaysThreshold),
				Link: "/checks/" + c.ID.String(),
				Metadata: map[string]string{
					"checkId":       c.ID.String(),
					"candidateName": c.CandidateName,
					"eventKind":     "escalation",
				},
			}
			if err := p.notifier.Send(gctx, n); err != nil {
				// The event is already durable; a failed hand-off is
				// logged, not retried here.
				p.logger.Error("escalation notification failed",
					"recipient", recipient,
					"check_id", c.ID.String(),
					"error", err)
			}
			return nil
		})
	}
	return g.Wait()
}
