package audit

import (
	"context"
	"time"

	id "vetflow/pkg/domain"
)

// Store is the persistence contract for the status-change log. Append-only:
// there is deliberately no update or delete.
type Store interface {
	Append(ctx context.Context, r Record) error
	ListByCheck(ctx context.Context, checkID id.CheckID) ([]Record, error)
	ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]Record, error)
	// ListByTimeRange returns records with Timestamp in [from, to],
	// ordered oldest first.
	ListByTimeRange(ctx context.Context, from, to time.Time) ([]Record, error)
}
