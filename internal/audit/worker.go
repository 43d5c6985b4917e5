package audit

import (
	"context"
	"log/slog"
)

// Worker consumes stored records from a channel and forwards them to a
// secondary sink. It keeps background fan-out testable without wiring a
// broker in unit tests.
type Worker struct {
	sink   Sink
	inbox  <-chan Record
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Record, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run drains the inbox until the context is cancelled. Sink errors are
// logged and skipped; the store already holds the record.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-w.inbox:
			if err := w.sink.Publish(ctx, r); err != nil {
				w.logger.Error("audit sink publish failed",
					"check_id", r.CheckID.String(),
					"error", err)
			}
		}
	}
}
