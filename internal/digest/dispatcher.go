package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vetflow/internal/notify"
)

// Dispatcher sends due digests. Aggregation stays pure; only the
// lastSentAt marker is mutated, and only after a successful hand-off.
type Dispatcher struct {
	agg      *Aggregator
	prefs    PreferencesStore
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewDispatcher(agg *Aggregator, prefs PreferencesStore, notifier notify.Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{agg: agg, prefs: prefs, notifier: notifier, logger: logger}
}

// due reports whether a digest should be sent now.
func due(p Preferences, now time.Time) bool {
	window := p.Frequency.Window()
	if window == 0 {
		return false
	}
	return p.LastSentAt == nil || now.Sub(*p.LastSentAt) >= window
}

// DispatchDue builds and sends digests for every subscriber whose window
// has elapsed. Empty digests are skipped without touching lastSentAt.
// Returns the number sent.
func (d *Dispatcher) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	subs, err := d.prefs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list digest subscriptions: %w", err)
	}

	sent := 0
	for _, p := range subs {
		if !due(p, now) {
			continue
		}
		data, err := d.agg.build(ctx, p, now)
		if err != nil {
			return sent, err
		}
		if data == nil || data.Empty() {
			continue
		}

		if err := d.notifier.Send(ctx, d.payload(p, *data)); err != nil {
			// Do not mark sent: the subscriber gets the content again
			// next cycle instead of losing it.
			d.logger.Error("digest delivery failed",
				"user_id", p.UserID.String(),
				"error", err)
			continue
		}
		if err := d.prefs.MarkSent(ctx, p.UserID, now); err != nil {
			return sent, fmt.Errorf("mark digest sent: %w", err)
		}
		sent++
	}
	return sent, nil
}

func (d *Dispatcher) payload(p Preferences, data Data) notify.Notification {
	return notify.Notification{
		Recipient: p.Destination,
		Category:  notify.CategoryDigest,
		Severity:  notify.SeverityInfo,
		Title:     fmt.Sprintf("%s background check digest", p.Frequency),
		Message: fmt.Sprintf("%d status changes, %d pending actions, %d checks total",
			len(data.StatusChanges), len(data.PendingActions), data.Summary.Total),
		Metadata: map[string]string{
			"userId":    p.UserID.String(),
			"eventKind": "digest",
		},
	}
}
