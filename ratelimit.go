package beanatlas

import (
	"context"
	"time"
)

// Rate limit window labels. Each client key carries two independent
// self-expiring counters.
const (
	WindowMinute = "minute"
	WindowDay    = "day"
)

// RateLimitStatus reports current counter values without incrementing.
type RateLimitStatus struct {
	ClientKey   string `json:"clientKey"`
	MinuteCount int64  `json:"minuteCount"`
	MinuteLimit int64  `json:"minuteLimit"`
	DayCount    int64  `json:"dayCount"`
	DayLimit    int64  `json:"dayLimit"`
}

// RateLimiter is dual sliding-window admission control keyed by client
// identity (e.g., IP address).
type RateLimiter interface {
	// Allow atomically increments the client's counters and reports whether
	// the request is admitted. Once a counter exceeds its ceiling, every
	// call is denied for the remainder of that window.
	Allow(ctx context.Context, clientKey string) (bool, error)

	// Status reads counters without incrementing.
	Status(ctx context.Context, clientKey string) (*RateLimitStatus, error)
}

// CounterStore is shared atomic storage for windowed counters. Increment
// must be atomic against concurrent callers: no read-then-write race.
type CounterStore interface {
	// Increment adds one to the counter for (clientKey, window) and returns
	// the post-increment value. The first increment in a window sets the
	// counter's expiry to now+ttl; an expired counter restarts at one.
	Increment(ctx context.Context, clientKey, window string, ttl time.Duration) (int64, error)

	// Count returns the current value without incrementing. Expired
	// counters read as zero.
	Count(ctx context.Context, clientKey, window string) (int64, error)
}
