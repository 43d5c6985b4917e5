// Package service orchestrates check lifecycle operations: initiation,
// evidence intake, cancellation, and the periodic transition sweep.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vetflow/internal/audit"
	"vetflow/internal/check"
	"vetflow/internal/sla"
	"vetflow/internal/transition"
	id "vetflow/pkg/domain"
	dErrors "vetflow/pkg/domain-errors"
	"vetflow/pkg/platform/sentinel"
)

// Service owns check mutations. All status changes flow through the
// transition engine so the audit trail stays complete.
type Service struct {
	checks   check.Store
	engine   *transition.Engine
	sla      *sla.Calculator
	auditLog *audit.Publisher
	logger   *slog.Logger
}

func New(
	checks check.Store,
	engine *transition.Engine,
	slaCalc *sla.Calculator,
	auditLog *audit.Publisher,
	logger *slog.Logger,
) (*Service, error) {
	if checks == nil {
		return nil, errors.New("check store is required")
	}
	if engine == nil {
		return nil, errors.New("transition engine is required")
	}
	return &Service{
		checks:   checks,
		engine:   engine,
		sla:      slaCalc,
		auditLog: auditLog,
		logger:   logger,
	}, nil
}

// InitiateRequest carries everything needed to open a check.
type InitiateRequest struct {
	CandidateID   id.CandidateID
	CandidateName string
	RequiredTypes []check.Type
	InitiatedBy   id.UserID
}

// Initiate opens a new check in pending_consent and audits the creation.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest, now time.Time) (*check.Check, error) {
	if req.CandidateName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "candidate name is required")
	}

	c := check.Check{
		ID:              id.NewCheckID(),
		CandidateID:     req.CandidateID,
		CandidateName:   req.CandidateName,
		Status:          check.StatusPendingConsent,
		StatusEnteredAt: now,
		RequiredTypes:   req.RequiredTypes,
		InitiatedDate:   now,
		InitiatedBy:     req.InitiatedBy,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.checks.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create check: %w", err)
	}

	if err := s.auditLog.Emit(ctx, audit.Record{
		CheckID:       c.ID,
		CandidateID:   c.CandidateID,
		NewStatus:     c.Status,
		ChangedBy:     req.InitiatedBy.String(),
		Reason:        "check initiated",
		Timestamp:     now,
		Automated:     false,
	}); err != nil {
		return nil, fmt.Errorf("audit initiation: %w", err)
	}

	return &c, nil
}

// GrantConsent records candidate consent and immediately re-evaluates the
// check. Granting consent twice is a no-op.
func (s *Service) GrantConsent(ctx context.Context, checkID id.CheckID, at time.Time) (*check.Check, error) {
	c, err := s.get(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if !c.ConsentGiven {
		c.ConsentGiven = true
		c.ConsentDate = &at
		if err := s.checks.Update(ctx, *c); err != nil {
			return nil, fmt.Errorf("record consent: %w", err)
		}
	}
	if _, err := s.engine.Apply(ctx, c, at); err != nil {
		return nil, err
	}
	return c, nil
}

// RecordResult stores a provider outcome for one required type and
// re-evaluates the check. A later result for the same type replaces the
// earlier one as long as the check is still open.
func (s *Service) RecordResult(ctx context.Context, checkID id.CheckID, r check.Result, now time.Time) (*check.Check, error) {
	c, err := s.get(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if c.Status.IsTerminal() {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "check is %s; results are closed", c.Status)
	}

	required := false
	for _, t := range c.RequiredTypes {
		if t == r.Type {
			required = true
			break
		}
	}
	if !required {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "check type %q is not required on this check", r.Type)
	}

	if r.Classification.IsTerminal() && r.CompletedAt == nil {
		completed := now
		r.CompletedAt = &completed
	}

	if existing := c.ResultFor(r.Type); existing != nil {
		*existing = r
	} else {
		c.Results = append(c.Results, r)
	}
	if err := s.checks.Update(ctx, *c); err != nil {
		return nil, fmt.Errorf("record result: %w", err)
	}

	if _, err := s.engine.Apply(ctx, c, now); err != nil {
		return nil, err
	}
	return c, nil
}

// AssignReviewer attaches a reviewer to an adverse-outcome check.
func (s *Service) AssignReviewer(ctx context.Context, checkID id.CheckID, reviewer id.UserID, notes string) (*check.Check, error) {
	c, err := s.get(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if c.Status != check.StatusIssuesFound {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "check is %s; only issues_found checks take a reviewer", c.Status)
	}
	c.ReviewerID = &reviewer
	c.ReviewerNotes = notes
	if err := s.checks.Update(ctx, *c); err != nil {
		return nil, fmt.Errorf("assign reviewer: %w", err)
	}
	return c, nil
}

// Cancel performs the manual terminal transition.
func (s *Service) Cancel(ctx context.Context, checkID id.CheckID, by id.UserID, byName, reason string, now time.Time) (*check.Check, error) {
	c, err := s.get(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Cancel(ctx, c, by.String(), byName, reason, now); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns one check.
func (s *Service) Get(ctx context.Context, checkID id.CheckID) (*check.Check, error) {
	return s.get(ctx, checkID)
}

// List returns checks matching the filter.
func (s *Service) List(ctx context.Context, f check.Filter) ([]check.Check, error) {
	return s.checks.List(ctx, f)
}

// SLAFor returns the SLA projection for one check, nil when unmonitored.
func (s *Service) SLAFor(ctx context.Context, checkID id.CheckID, now time.Time) (*sla.Status, error) {
	c, err := s.get(ctx, checkID)
	if err != nil {
		return nil, err
	}
	return s.sla.For(ctx, *c, now)
}

// SLADashboard evaluates every active check.
func (s *Service) SLADashboard(ctx context.Context, now time.Time) ([]sla.Status, error) {
	checks, err := s.checks.List(ctx, check.Filter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return s.sla.Dashboard(ctx, checks, now)
}

// History returns the status-change trail for one check.
func (s *Service) History(ctx context.Context, checkID id.CheckID) ([]audit.Record, error) {
	if _, err := s.get(ctx, checkID); err != nil {
		return nil, err
	}
	return s.auditLog.ListByCheck(ctx, checkID)
}

// Sweep re-evaluates every non-terminal check against the transition
// rules. Run-to-completion: callers must not overlap sweeps, since the
// engine assumes a single writer per check.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	checks, err := s.checks.List(ctx, check.Filter{ActiveOnly: true})
	if err != nil {
		return 0, fmt.Errorf("list active checks: %w", err)
	}
	applied := 0
	for i := range checks {
		a, err := s.engine.Apply(ctx, &checks[i], now)
		if err != nil {
			// One bad check must not stall the whole sweep.
			s.logger.Error("transition sweep failed for check",
				"check_id", checks[i].ID.String(),
				"error", err)
			continue
		}
		if a != nil {
			applied++
		}
	}
	return applied, nil
}

func (s *Service) get(ctx context.Context, checkID id.CheckID) (*check.Check, error) {
	c, err := s.checks.Get(ctx, checkID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "check not found")
		}
		return nil, err
	}
	return c, nil
}
