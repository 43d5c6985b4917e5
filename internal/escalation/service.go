package escalation

import (
	"context"
	"errors"
	"time"

	id "vetflow/pkg/domain"
	dErrors "vetflow/pkg/domain-errors"
	"vetflow/pkg/platform/sentinel"
)

// Service exposes operator actions on escalation events. Acknowledge and
// resolve are independently settable; resolving does not require a prior
// acknowledgement.
type Service struct {
	events EventStore
}

func NewService(events EventStore) *Service {
	return &Service{events: events}
}

func (s *Service) get(ctx context.Context, eventID id.EventID) (*Event, error) {
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "escalation event not found")
		}
		return nil, err
	}
	return e, nil
}

// Acknowledge marks the event as seen by an operator.
func (s *Service) Acknowledge(ctx context.Context, eventID id.EventID, by string, at time.Time) (*Event, error) {
	if by == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "acknowledging operator is required")
	}
	e, err := s.get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.Acknowledged {
		return nil, dErrors.New(dErrors.CodeInvalidState, "escalation already acknowledged")
	}
	e.Acknowledged = true
	e.AcknowledgedBy = by
	e.AcknowledgedAt = &at
	if err := s.events.Update(ctx, *e); err != nil {
		return nil, err
	}
	return e, nil
}

// Resolve closes the event. Notes are optional context for the audit view.
func (s *Service) Resolve(ctx context.Context, eventID id.EventID, by, notes string, at time.Time) (*Event, error) {
	if by == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "resolving operator is required")
	}
	e, err := s.get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.Resolved {
		return nil, dErrors.New(dErrors.CodeInvalidState, "escalation already resolved")
	}
	e.Resolved = true
	e.ResolvedBy = by
	e.ResolvedAt = &at
	if notes != "" {
		e.Notes = notes
	}
	if err := s.events.Update(ctx, *e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListOpen returns unresolved events for the operator queue.
func (s *Service) ListOpen(ctx context.Context) ([]Event, error) {
	return s.events.ListOpen(ctx)
}

// ListByCheck returns the escalation history for one check.
func (s *Service) ListByCheck(ctx context.Context, checkID id.CheckID) ([]Event, error) {
	return s.events.ListByCheck(ctx, checkID)
}
