package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "vetflow/pkg/domain"
)

// Sink receives records after they are durably stored, for fan-out to
// secondary destinations (Kafka, log shippers). Sink failures never fail
// the append: the store is the source of truth.
type Sink interface {
	Publish(ctx context.Context, r Record) error
}

// Publisher appends status-change records. It is append-only and uses the
// store for persistence so tests can swap sinks easily. When an inbox is
// attached, stored records are also handed to the background worker.
type Publisher struct {
	store Store
	inbox chan<- Record
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// WithInbox attaches the channel drained by a Worker. Sends never block:
// if the inbox is full the record is dropped from the secondary path only.
func (p *Publisher) WithInbox(inbox chan<- Record) *Publisher {
	p.inbox = inbox
	return p
}

func (p *Publisher) Emit(ctx context.Context, r Record) error {
	if r.ID.IsNil() {
		r.ID = id.EventID(uuid.New())
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, r); err != nil {
		return err
	}
	if p.inbox != nil {
		select {
		case p.inbox <- r:
		default:
		}
	}
	return nil
}

func (p *Publisher) ListByCheck(ctx context.Context, checkID id.CheckID) ([]Record, error) {
	return p.store.ListByCheck(ctx, checkID)
}
