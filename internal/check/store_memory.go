package check

import (
	"context"
	"sync"

	id "vetflow/pkg/domain"
	"vetflow/pkg/platform/sentinel"
)

// InMemoryStore backs the check collection with a map. Used in tests and
// for running without Postgres configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	checks map[id.CheckID]Check
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{checks: make(map[id.CheckID]Check)}
}

func (s *InMemoryStore) Create(_ context.Context, c Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.checks[c.ID]; exists {
		return sentinel.ErrConflict
	}
	s.checks[c.ID] = cloneCheck(c)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, checkID id.CheckID) (*Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, exists := s.checks[checkID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	out := cloneCheck(c)
	return &out, nil
}

func (s *InMemoryStore) Update(_ context.Context, c Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.checks[c.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.checks[c.ID] = cloneCheck(c)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, f Filter) ([]Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Check, 0, len(s.checks))
	for _, c := range s.checks {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if !f.CandidateID.IsNil() && c.CandidateID != f.CandidateID {
			continue
		}
		if f.ActiveOnly && c.Status.IsTerminal() {
			continue
		}
		out = append(out, cloneCheck(c))
	}
	return out, nil
}

// cloneCheck deep-copies slices so callers cannot mutate stored state.
func cloneCheck(c Check) Check {
	c.RequiredTypes = append([]Type{}, c.RequiredTypes...)
	c.Results = append([]Result{}, c.Results...)
	return c
}
