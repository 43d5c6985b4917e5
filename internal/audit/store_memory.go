package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	id "vetflow/pkg/domain"
)

// InMemoryStore keeps the status-change log in a slice. Used in tests and
// for running without Postgres configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *InMemoryStore) ListByCheck(_ context.Context, checkID id.CheckID) ([]Record, error) {
	return s.filter(func(r Record) bool { return r.CheckID == checkID }), nil
}

func (s *InMemoryStore) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]Record, error) {
	return s.filter(func(r Record) bool { return r.CandidateID == candidateID }), nil
}

func (s *InMemoryStore) ListByTimeRange(_ context.Context, from, to time.Time) ([]Record, error) {
	return s.filter(func(r Record) bool {
		return !r.Timestamp.Before(from) && !r.Timestamp.After(to)
	}), nil
}

func (s *InMemoryStore) filter(keep func(Record) bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}
