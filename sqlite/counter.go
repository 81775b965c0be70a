package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/beanatlas/beanatlas"
)

// Compile-time interface verification.
var _ beanatlas.CounterStore = (*CounterStore)(nil)

// CounterStore implements beanatlas.CounterStore using SQLite. The whole
// increment (expiry check, reset, bump) is one UPSERT statement, so
// concurrent callers can't race a read-then-write.
type CounterStore struct {
	db *DB

	// now is the clock, injectable for deterministic window tests.
	now func() time.Time
}

// NewCounterStore creates a new CounterStore.
func NewCounterStore(db *DB) *CounterStore {
	return &CounterStore{db: db, now: time.Now}
}

// SetClock overrides the store's clock. Tests use it to step counter
// windows deterministically.
func (s *CounterStore) SetClock(now func() time.Time) {
	s.now = now
}

// Increment adds one to the (clientKey, window) counter and returns the
// post-increment value. The first increment in a window sets the expiry to
// now+ttl; an expired counter restarts at one with a fresh expiry.
func (s *CounterStore) Increment(ctx context.Context, clientKey, window string, ttl time.Duration) (int64, error) {
	if clientKey == "" || window == "" {
		return 0, beanatlas.Errorf(beanatlas.EINVALID, "client key and window required")
	}

	now := s.now().UTC()
	expiry := now.Add(ttl).Format(time.RFC3339)
	nowStr := now.Format(time.RFC3339)

	// The numbered-parameter form keeps the statement single and atomic.
	var count int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO rate_counters (client_key, window, count, expires_at)
		VALUES (?1, ?2, 1, ?4)
		ON CONFLICT (client_key, window) DO UPDATE SET
			count = CASE WHEN rate_counters.expires_at <= ?3 THEN 1 ELSE rate_counters.count + 1 END,
			expires_at = CASE WHEN rate_counters.expires_at <= ?3 THEN ?4 ELSE rate_counters.expires_at END
		RETURNING count
	`, clientKey, window, nowStr, expiry).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Count returns the current value without incrementing. Expired counters
// read as zero.
func (s *CounterStore) Count(ctx context.Context, clientKey, window string) (int64, error) {
	now := s.now().UTC().Format(time.RFC3339)

	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT count FROM rate_counters
		WHERE client_key = ? AND window = ? AND expires_at > ?
	`, clientKey, window, now).Scan(&count)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
