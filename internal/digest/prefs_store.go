package digest

import (
	"context"
	"sync"
	"time"

	id "vetflow/pkg/domain"
	"vetflow/pkg/platform/sentinel"
)

// PreferencesStore persists digest subscriptions and their send markers.
type PreferencesStore interface {
	Get(ctx context.Context, userID id.UserID) (*Preferences, error)
	Put(ctx context.Context, p Preferences) error
	List(ctx context.Context) ([]Preferences, error)
	MarkSent(ctx context.Context, userID id.UserID, at time.Time) error
}

// InMemoryPreferencesStore keeps subscriptions in a map.
type InMemoryPreferencesStore struct {
	mu    sync.RWMutex
	prefs map[id.UserID]Preferences
}

func NewInMemoryPreferencesStore() *InMemoryPreferencesStore {
	return &InMemoryPreferencesStore{prefs: make(map[id.UserID]Preferences)}
}

func (s *InMemoryPreferencesStore) Get(_ context.Context, userID id.UserID) (*Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, exists := s.prefs[userID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryPreferencesStore) Put(_ context.Context, p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[p.UserID] = p
	return nil
}

func (s *InMemoryPreferencesStore) List(_ context.Context) ([]Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Preferences, 0, len(s.prefs))
	for _, p := range s.prefs {
		out = append(out, p)
	}
	return out, nil
}

func (s *InMemoryPreferencesStore) MarkSent(_ context.Context, userID id.UserID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.prefs[userID]
	if !exists {
		return sentinel.ErrNotFound
	}
	p.LastSentAt = &at
	s.prefs[userID] = p
	return nil
}
