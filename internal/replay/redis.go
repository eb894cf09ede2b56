package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Radrdotfun/radr-http-434-private-payment-proof/internal/shadowpay"
)

var _ shadowpay.ReplayGuard = (*RedisGuard)(nil)

// RedisGuard stores consumed nullifiers in Redis so several API replicas
// share one replay set. SETNX gives the atomic check-and-insert.
type RedisGuard struct {
	cache   *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisGuard builds a Redis-backed guard. A zero ttl keeps entries forever.
func NewRedisGuard(cache *redis.Client, ttl time.Duration) (*RedisGuard, error) {
	if cache == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("replay ttl must not be negative")
	}
	return &RedisGuard{cache: cache, ttl: ttl, timeout: 2 * time.Second}, nil
}

// TryConsume reserves the nullifier key. It reports false when the key
// already existed.
func (g *RedisGuard) TryConsume(ctx context.Context, nullifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	created, err := g.cache.SetNX(ctx, redisKey(nullifier), stamp, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return created, nil
}
