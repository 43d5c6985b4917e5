package escalation

import (
	"context"
	"time"

	id "vetflow/pkg/domain"
)

// EventStore persists escalation events. Append plus targeted updates for
// operator actions; events are never deleted.
type EventStore interface {
	Append(ctx context.Context, e Event) error
	Get(ctx context.Context, eventID id.EventID) (*Event, error)
	Update(ctx context.Context, e Event) error
	ListByCheck(ctx context.Context, checkID id.CheckID) ([]Event, error)
	// ListOpen returns unresolved events, newest first.
	ListOpen(ctx context.Context) ([]Event, error)
}

// RuleStore is the administrative surface for escalation rules.
type RuleStore interface {
	List(ctx context.Context) ([]Rule, error)
	Put(ctx context.Context, r Rule) error
}

// DedupStore is the per-check cooldown memory. It must survive process
// restarts (spec: the only cross-cycle state), so production uses Redis.
type DedupStore interface {
	// MarkIfAllowed records an escalation for the check unless one was
	// already recorded within the window. Returns true when the caller
	// may proceed. The check-and-set must be atomic.
	MarkIfAllowed(ctx context.Context, checkID id.CheckID, at time.Time, window time.Duration) (bool, error)
}
