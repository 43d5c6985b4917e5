package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "vetflow/pkg/domain"
)

// RedisDedupStore backs the per-check cooldown with Redis SET NX EX, which
// gives an atomic check-and-set and a window that survives process
// restarts.
type RedisDedupStore struct {
	client *redis.Client
}

func NewRedisDedupStore(client *redis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client}
}

func dedupKey(checkID id.CheckID) string {
	return "vetflow:escalation:cooldown:" + checkID.String()
}

func (s *RedisDedupStore) MarkIfAllowed(ctx context.Context, checkID id.CheckID, at time.Time, window time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, dedupKey(checkID), at.Format(time.RFC3339), window).Result()
	if err != nil {
		return false, fmt.Errorf("escalation dedup setnx: %w", err)
	}
	return ok, nil
}
