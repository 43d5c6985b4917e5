package sla

import (
	"context"
	"sync"

	"vetflow/internal/check"
)

// ConfigStore is the administrative surface for SLA targets. Get returns
// (nil, nil) for statuses with no configuration.
type ConfigStore interface {
	Get(ctx context.Context, status check.Status) (*Config, error)
	Put(ctx context.Context, cfg Config) error
	List(ctx context.Context) ([]Config, error)
}

// DefaultConfigs cover every status that needs monitoring so the system
// functions with zero configuration. Terminal statuses carry no SLA.
func DefaultConfigs() []Config {
	return []Config{
		{
			Status:                   check.StatusNotStarted,
			TargetDays:               2,
			BusinessDaysOnly:         true,
			WarningThresholdPercent:  50,
			CriticalThresholdPercent: 100,
			NotifyInitiator:          true,
			Enabled:                  true,
		},
		{
			Status:                   check.StatusPendingConsent,
			TargetDays:               3,
			BusinessDaysOnly:         true,
			WarningThresholdPercent:  60,
			CriticalThresholdPercent: 90,
			NotifyInitiator:          true,
			Enabled:                  true,
		},
		{
			Status:                   check.StatusInProgress,
			TargetDays:               7,
			BusinessDaysOnly:         true,
			WarningThresholdPercent:  60,
			CriticalThresholdPercent: 90,
			NotifyInitiator:          true,
			NotifyAdmin:              true,
			Enabled:                  true,
		},
	}
}

// InMemoryConfigStore holds configs keyed by status, seeded with defaults.
type InMemoryConfigStore struct {
	mu      sync.RWMutex
	configs map[check.Status]Config
}

func NewInMemoryConfigStore() *InMemoryConfigStore {
	s := &InMemoryConfigStore{configs: make(map[check.Status]Config)}
	for _, cfg := range DefaultConfigs() {
		s.configs[cfg.Status] = cfg
	}
	return s
}

func (s *InMemoryConfigStore) Get(_ context.Context, status check.Status) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, exists := s.configs[status]
	if !exists {
		return nil, nil
	}
	return &cfg, nil
}

// Put validates and stores a config, replacing any existing one for the
// same status. Validation failures surface synchronously to the caller.
func (s *InMemoryConfigStore) Put(_ context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.Status] = cfg
	return nil
}

func (s *InMemoryConfigStore) List(_ context.Context) ([]Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Config, 0, len(s.configs))
	for _, cfg := range s.configs {
		out = append(out, cfg)
	}
	return out, nil
}
