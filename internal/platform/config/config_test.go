package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "vetflow.status-changes", cfg.KafkaTopic)
	assert.Equal(t, time.Minute, cfg.TransitionInterval)
	assert.Equal(t, 15*time.Minute, cfg.EscalationInterval)
	assert.Equal(t, time.Hour, cfg.DigestInterval)
	assert.Empty(t, cfg.PostgresDSN)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("VETFLOW_ADDR", ":9090")
	t.Setenv("VETFLOW_KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	t.Setenv("VETFLOW_ESCALATION_INTERVAL", "5m")
	t.Setenv("VETFLOW_REVIEWERS", "compliance-team")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.EscalationInterval)
	assert.Equal(t, []string{"compliance-team"}, cfg.Reviewers)
}

func TestFromEnv_BadDurationFallsBack(t *testing.T) {
	t.Setenv("VETFLOW_DIGEST_INTERVAL", "soon")
	cfg := FromEnv()
	assert.Equal(t, time.Hour, cfg.DigestInterval)
}
