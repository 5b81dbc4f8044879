package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/authsvc/domain"
)

// ThrottleStoreImpl implements domain.ThrottleStore using Redis counters
// with TTL windows.
type ThrottleStoreImpl struct {
	client *redis.Client
	prefix string
}

// NewThrottleStore creates a new Redis-based throttle store.
func NewThrottleStore(client *redis.Client) domain.ThrottleStore {
	return &ThrottleStoreImpl{
		client: client,
		prefix: "throttle:",
	}
}

// Allow implements domain.ThrottleStore
func (s *ThrottleStoreImpl) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	redisKey := s.prefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment throttle counter: %w", err)
	}

	// First attempt in this window starts the clock.
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set throttle window: %w", err)
		}
	}

	if count > int64(limit) {
		ttl, err := s.client.TTL(ctx, redisKey).Result()
		if err != nil {
			return false, 0, fmt.Errorf("failed to check throttle TTL: %w", err)
		}
		if ttl < 0 {
			ttl = 0
		}
		return false, int64(ttl.Seconds()), nil
	}

	return true, 0, nil
}
