package check

import (
	"context"

	id "vetflow/pkg/domain"
)

// Filter narrows List results. Zero value lists everything.
type Filter struct {
	Status      Status
	CandidateID id.CandidateID
	// ActiveOnly restricts results to non-terminal checks.
	ActiveOnly bool
}

// Store is the persistence contract for checks. Implementations return
// sentinel.ErrNotFound for missing rows; the service layer translates.
type Store interface {
	Create(ctx context.Context, c Check) error
	Get(ctx context.Context, checkID id.CheckID) (*Check, error)
	Update(ctx context.Context, c Check) error
	List(ctx context.Context, f Filter) ([]Check, error)
}
