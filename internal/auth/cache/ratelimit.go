package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCounterBackend reports that the key-value store was unreachable while
// touching a failure counter.
var ErrCounterBackend = errors.New("cache: failure counter backend unavailable")

// FailureCounter tracks authentication failures per client IP with a
// rolling block window. Counts reset only by key expiry.
type FailureCounter struct {
	redis  *redis.Client
	window time.Duration
}

func NewFailureCounter(client *redis.Client, window time.Duration) *FailureCounter {
	return &FailureCounter{redis: client, window: window}
}

func (c *FailureCounter) key(ip string) string {
	return "fail_ip:" + ip
}

// Count returns the current failure count for ip; absent or expired keys
// count as zero. Read-only, no side effect.
func (c *FailureCounter) Count(ctx context.Context, ip string) (int64, error) {
	val, err := c.redis.Get(ctx, c.key(ip)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrCounterBackend, err)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, nil
	}
	return count, nil
}

// RecordFailure atomically increments the counter for ip. The window TTL
// is set only on the 0 -> 1 transition; INCR keeps concurrent failing
// attempts from under-counting.
func (c *FailureCounter) RecordFailure(ctx context.Context, ip string) (int64, error) {
	count, err := c.redis.Incr(ctx, c.key(ip)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCounterBackend, err)
	}

	if count == 1 {
		if err := c.redis.Expire(ctx, c.key(ip), c.window).Err(); err != nil {
			return count, fmt.Errorf("%w: %v", ErrCounterBackend, err)
		}
	}

	return count, nil
}
