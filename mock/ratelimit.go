package mock

import (
	"context"
	"time"

	"github.com/beanatlas/beanatlas"
)

var _ beanatlas.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of beanatlas.RateLimiter.
type RateLimiter struct {
	AllowFn  func(ctx context.Context, clientKey string) (bool, error)
	StatusFn func(ctx context.Context, clientKey string) (*beanatlas.RateLimitStatus, error)
}

func (l *RateLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	return l.AllowFn(ctx, clientKey)
}

func (l *RateLimiter) Status(ctx context.Context, clientKey string) (*beanatlas.RateLimitStatus, error) {
	return l.StatusFn(ctx, clientKey)
}

var _ beanatlas.CounterStore = (*CounterStore)(nil)

// CounterStore is a mock implementation of beanatlas.CounterStore.
type CounterStore struct {
	IncrementFn func(ctx context.Context, clientKey, window string, ttl time.Duration) (int64, error)
	CountFn     func(ctx context.Context, clientKey, window string) (int64, error)
}

func (s *CounterStore) Increment(ctx context.Context, clientKey, window string, ttl time.Duration) (int64, error) {
	return s.IncrementFn(ctx, clientKey, window, ttl)
}

func (s *CounterStore) Count(ctx context.Context, clientKey, window string) (int64, error) {
	return s.CountFn(ctx, clientKey, window)
}
