// Package ratelimit provides dual sliding-window admission control keyed by
// client identity, backed by a shared atomic counter store.
package ratelimit

import (
	"context"
	"time"

	"github.com/beanatlas/beanatlas"
)

// Default ceilings per client key.
const (
	DefaultPerMinute = 10
	DefaultPerDay    = 200
)

// Compile-time interface verification.
var _ beanatlas.RateLimiter = (*Limiter)(nil)

// Limiter enforces two independent self-expiring counters per client key:
// one per minute, one per day. Counter increments happen in the store, so
// concurrent callers never race a read-then-write.
type Limiter struct {
	store     beanatlas.CounterStore
	perMinute int64
	perDay    int64
}

// NewLimiter creates a Limiter over the given counter store. Non-positive
// ceilings fall back to the defaults.
func NewLimiter(store beanatlas.CounterStore, perMinute, perDay int64) *Limiter {
	if perMinute <= 0 {
		perMinute = DefaultPerMinute
	}
	if perDay <= 0 {
		perDay = DefaultPerDay
	}
	return &Limiter{store: store, perMinute: perMinute, perDay: perDay}
}

// Allow atomically increments the client's minute counter, denying when it
// exceeds the per-minute ceiling, then the day counter against the per-day
// ceiling. Once a counter exceeds its ceiling every call is denied for the
// remainder of that window.
func (l *Limiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	if clientKey == "" {
		return false, beanatlas.Errorf(beanatlas.EINVALID, "client key required")
	}

	minute, err := l.store.Increment(ctx, clientKey, beanatlas.WindowMinute, time.Minute)
	if err != nil {
		return false, err
	}
	if minute > l.perMinute {
		return false, nil
	}

	day, err := l.store.Increment(ctx, clientKey, beanatlas.WindowDay, 24*time.Hour)
	if err != nil {
		return false, err
	}
	if day > l.perDay {
		return false, nil
	}

	return true, nil
}

// Status reads the client's counters without incrementing.
func (l *Limiter) Status(ctx context.Context, clientKey string) (*beanatlas.RateLimitStatus, error) {
	minute, err := l.store.Count(ctx, clientKey, beanatlas.WindowMinute)
	if err != nil {
		return nil, err
	}
	day, err := l.store.Count(ctx, clientKey, beanatlas.WindowDay)
	if err != nil {
		return nil, err
	}
	return &beanatlas.RateLimitStatus{
		ClientKey:   clientKey,
		MinuteCount: minute,
		MinuteLimit: l.perMinute,
		DayCount:    day,
		DayLimit:    l.perDay,
	}, nil
}
