// Package config builds runtime configuration from environment variables
// so main stays lean. Every value has a development default; production
// deployments override via env.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr     string
	LogLevel string

	// PostgresDSN selects the Postgres-backed stores when non-empty;
	// otherwise the in-memory stores are used.
	PostgresDSN string

	// RedisURL selects the durable escalation cooldown store when
	// non-empty.
	RedisURL string

	// KafkaBrokers enables the Kafka audit sink when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Processing cadences.
	TransitionInterval time.Duration
	EscalationInterval time.Duration
	DigestInterval     time.Duration

	// Reviewers receive adverse-outcome notifications when a check has
	// no assigned reviewer.
	Reviewers []string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:               envOr("VETFLOW_ADDR", ":8080"),
		LogLevel:           envOr("VETFLOW_LOG_LEVEL", "info"),
		PostgresDSN:        os.Getenv("VETFLOW_POSTGRES_DSN"),
		RedisURL:           os.Getenv("VETFLOW_REDIS_URL"),
		KafkaBrokers:       envList("VETFLOW_KAFKA_BROKERS"),
		KafkaTopic:         envOr("VETFLOW_KAFKA_TOPIC", "vetflow.status-changes"),
		TransitionInterval: envDuration("VETFLOW_TRANSITION_INTERVAL", time.Minute),
		EscalationInterval: envDuration("VETFLOW_ESCALATION_INTERVAL", 15*time.Minute),
		DigestInterval:     envDuration("VETFLOW_DIGEST_INTERVAL", time.Hour),
		Reviewers:          envList("VETFLOW_REVIEWERS"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
