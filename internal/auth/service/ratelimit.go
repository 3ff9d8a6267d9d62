package service

import (
	"context"
	"fmt"

	"github.com/mcitys/mcitys-api/internal/auth/cache"
)

// DefaultMaxFailures is the number of failed attempts within the counter
// window at which an IP address is blocked.
const DefaultMaxFailures = 10

// RateLimiter blocks login attempts from IP addresses that have
// accumulated too many recent failures.
type RateLimiter struct {
	Counter     *cache.FailureCounter
	MaxFailures int64
}

func (l *RateLimiter) max() int64 {
	if l.MaxFailures <= 0 {
		return DefaultMaxFailures
	}
	return l.MaxFailures
}

// CheckIPBlocked returns ErrTooManyAttempts when the address has reached
// the failure threshold within the current window.
func (l *RateLimiter) CheckIPBlocked(ctx context.Context, ip string) error {
	count, err := l.Counter.Count(ctx, ip)
	if err != nil {
		return fmt.Errorf("count failures: %w", err)
	}
	if count >= l.max() {
		return ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the address's failure counter.
func (l *RateLimiter) RecordFailure(ctx context.Context, ip string) error {
	if _, err := l.Counter.RecordFailure(ctx, ip); err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	return nil
}
