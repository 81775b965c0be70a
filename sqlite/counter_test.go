package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/beanatlas/beanatlas"
	"github.com/beanatlas/beanatlas/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCounterStore(t *testing.T) (*sqlite.CounterStore, *time.Time) {
	t.Helper()
	store := sqlite.NewCounterStore(setupTestDB(t))
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	return store, &now
}

func TestCounterStore_Increment(t *testing.T) {
	t.Parallel()

	t.Run("counts up within a window", func(t *testing.T) {
		t.Parallel()

		store, _ := setupCounterStore(t)
		ctx := context.Background()

		for want := int64(1); want <= 5; want++ {
			got, err := store.Increment(ctx, "client-a", beanatlas.WindowMinute, time.Minute)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("expired counter restarts at one", func(t *testing.T) {
		t.Parallel()

		store, now := setupCounterStore(t)
		ctx := context.Background()

		for range 5 {
			_, err := store.Increment(ctx, "client-a", beanatlas.WindowMinute, time.Minute)
			require.NoError(t, err)
		}

		*now = now.Add(61 * time.Second)
		got, err := store.Increment(ctx, "client-a", beanatlas.WindowMinute, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("windows are independent", func(t *testing.T) {
		t.Parallel()

		store, _ := setupCounterStore(t)
		ctx := context.Background()

		_, err := store.Increment(ctx, "client-a", beanatlas.WindowMinute, time.Minute)
		require.NoError(t, err)
		_, err = store.Increment(ctx, "client-a", beanatlas.WindowMinute, time.Minute)
		require.NoError(t, err)

		day, err := store.Increment(ctx, "client-a", beanatlas.WindowDay, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(1), day)
	})

	t.Run("rejects empty key or window", func(t *testing.T) {
		t.Parallel()

		store, _ := setupCounterStore(t)
		_, err := store.Increment(context.Background(), "", beanatlas.WindowMinute, time.Minute)
		require.Error(t, err)
		assert.Equal(t, beanatlas.EINVALID, beanatlas.ErrorCode(err))

		_, err = store.Increment(context.Background(), "client-a", "", time.Minute)
		require.Error(t, err)
		assert.Equal(t, beanatlas.EINVALID, beanatlas.ErrorCode(err))
	})
}

func TestCounterStore_Count(t *testing.T) {
	t.Parallel()

	t.Run("unknown counter reads as zero", func(t *testing.T) {
		t.Parallel()

		store, _ := setupCounterStore(t)
		count, err := store.Count(context.Background(), "client-a", beanatlas.WindowMinute)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("reads without incrementing", func(t *testing.T) {
		t.Parallel()

		store, _ := setupCounterStore(t)
		ctx := context.Background()

		_, err := store.Increment(ctx, "client-a", beanatlas.WindowMinute, time.Minute)
		require.NoError(t, err)

		for range 3 {
			count, err := store.Count(ctx, "client-a", beanatlas.WindowMinute)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		}
	})

	t.Run("expired counter reads as zero", func(t *testing.T) {
		t.Parallel()

		store, now := setupCounterStore(t)
		ctx := context.Background()

		_, err := store.Increment(ctx, "client-a", beanatlas.WindowMinute, time.Minute)
		require.NoError(t, err)

		*now = now.Add(2 * time.Minute)
		count, err := store.Count(ctx, "client-a", beanatlas.WindowMinute)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}
