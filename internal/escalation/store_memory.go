package escalation

import (
	"context"
	"sort"
	"sync"
	"time"

	id "vetflow/pkg/domain"
	"vetflow/pkg/platform/sentinel"
)

// InMemoryEventStore keeps escalation events in a map. Used in tests and
// for running without Postgres configured.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[id.EventID]Event
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{events: make(map[id.EventID]Event)}
}

func (s *InMemoryEventStore) Append(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[e.ID]; exists {
		return sentinel.ErrConflict
	}
	s.events[e.ID] = cloneEvent(e)
	return nil
}

func (s *InMemoryEventStore) Get(_ context.Context, eventID id.EventID) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.events[eventID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	out := cloneEvent(e)
	return &out, nil
}

func (s *InMemoryEventStore) Update(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[e.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.events[e.ID] = cloneEvent(e)
	return nil
}

func (s *InMemoryEventStore) ListByCheck(_ context.Context, checkID id.CheckID) ([]Event, error) {
	return s.filter(func(e Event) bool { return e.CheckID == checkID }), nil
}

func (s *InMemoryEventStore) ListOpen(_ context.Context) ([]Event, error) {
	return s.filter(func(e Event) bool { return !e.Resolved }), nil
}

func (s *InMemoryEventStore) filter(keep func(Event) bool) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if keep(e) {
			out = append(out, cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EscalatedAt.After(out[j].EscalatedAt) })
	return out
}

func cloneEvent(e Event) Event {
	e.EscalatedTo = append([]string{}, e.EscalatedTo...)
	return e
}

// InMemoryRuleStore holds escalation rules, seeded with defaults.
type InMemoryRuleStore struct {
	mu    sync.RWMutex
	rules map[string]Rule
	order []string
}

func NewInMemoryRuleStore() *InMemoryRuleStore {
	s := &InMemoryRuleStore{rules: make(map[string]Rule)}
	for _, r := range DefaultRules() {
		s.rules[r.ID] = r
		s.order = append(s.order, r.ID)
	}
	return s
}

func (s *InMemoryRuleStore) List(_ context.Context) ([]Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, 0, len(s.order))
	for _, ruleID := range s.order {
		out = append(out, s.rules[ruleID])
	}
	return out, nil
}

func (s *InMemoryRuleStore) Put(_ context.Context, r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.rules[r.ID] = r
	return nil
}

// InMemoryDedupStore is the cooldown memory for tests and single-process
// runs. Production deployments use the Redis store so the window survives
// restarts.
type InMemoryDedupStore struct {
	mu   sync.Mutex
	last map[id.CheckID]time.Time
}

func NewInMemoryDedupStore() *InMemoryDedupStore {
	return &InMemoryDedupStore{last: make(map[id.CheckID]time.Time)}
}

func (s *InMemoryDedupStore) MarkIfAllowed(_ context.Context, checkID id.CheckID, at time.Time, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, exists := s.last[checkID]; exists && at.Sub(prev) < window {
		return false, nil
	}
	s.last[checkID] = at
	return true, nil
}
