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

func createTestRoaster(t *testing.T, svc *sqlite.RoasterService, name string) *beanatlas.Roaster {
	t.Helper()
	roaster := &beanatlas.Roaster{
		Name:       name,
		WebsiteURL: "https://" + name + ".example",
	}
	require.NoError(t, svc.CreateRoaster(context.Background(), roaster))
	return roaster
}

func TestRoasterService_CreateRoaster(t *testing.T) {
	t.Parallel()

	t.Run("creates roaster with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		roaster := &beanatlas.Roaster{
			Name:       "Test Roasters",
			WebsiteURL: "https://roaster.example",
		}

		require.NoError(t, svc.CreateRoaster(context.Background(), roaster))
		assert.NotEmpty(t, roaster.ID)
		assert.False(t, roaster.CreatedAt.IsZero())
		assert.False(t, roaster.UpdatedAt.IsZero())
		assert.True(t, roaster.LastCrawledAt.IsZero(), "new roaster has never been crawled")
	})

	t.Run("returns error for invalid roaster", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		err := svc.CreateRoaster(context.Background(), &beanatlas.Roaster{})
		require.Error(t, err)
		assert.Equal(t, beanatlas.EINVALID, beanatlas.ErrorCode(err))
	})
}

func TestRoasterService_FindRoasterByID(t *testing.T) {
	t.Parallel()

	t.Run("returns roaster when found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		roaster := createTestRoaster(t, svc, "test-roasters")

		found, err := svc.FindRoasterByID(context.Background(), roaster.ID)
		require.NoError(t, err)
		assert.Equal(t, roaster.ID, found.ID)
		assert.Equal(t, roaster.Name, found.Name)
	})

	t.Run("returns ENOTFOUND for missing roaster", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		_, err := svc.FindRoasterByID(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, beanatlas.ENOTFOUND, beanatlas.ErrorCode(err))
	})
}

func TestRoasterService_FindRoasters(t *testing.T) {
	t.Parallel()

	t.Run("filters by approval", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		ctx := context.Background()

		createTestRoaster(t, svc, "pending-roasters")
		approved := createTestRoaster(t, svc, "approved-roasters")
		yes := true
		_, err := svc.UpdateRoaster(ctx, approved.ID, beanatlas.RoasterUpdate{Approved: &yes})
		require.NoError(t, err)

		found, err := svc.FindRoasters(ctx, beanatlas.RoasterFilter{Approved: &yes})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, approved.ID, found[0].ID)
	})

	t.Run("filters by name", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		createTestRoaster(t, svc, "first")
		createTestRoaster(t, svc, "second")

		name := "second"
		found, err := svc.FindRoasters(context.Background(), beanatlas.RoasterFilter{Name: &name})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "second", found[0].Name)
	})
}

func TestRoasterService_MarkCrawled(t *testing.T) {
	t.Parallel()

	t.Run("records crawl timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		ctx := context.Background()
		roaster := createTestRoaster(t, svc, "test-roasters")

		at := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
		require.NoError(t, svc.MarkCrawled(ctx, roaster.ID, at))

		found, err := svc.FindRoasterByID(ctx, roaster.ID)
		require.NoError(t, err)
		assert.Equal(t, at, found.LastCrawledAt)
	})

	t.Run("returns ENOTFOUND for missing roaster", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		err := svc.MarkCrawled(context.Background(), "missing", time.Now())
		require.Error(t, err)
		assert.Equal(t, beanatlas.ENOTFOUND, beanatlas.ErrorCode(err))
	})
}

func TestRoasterService_DeleteRoaster(t *testing.T) {
	t.Parallel()

	t.Run("cascades to coffees", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		roasters := sqlite.NewRoasterService(db)
		coffees := sqlite.NewCoffeeService(db)
		ctx := context.Background()

		roaster := createTestRoaster(t, roasters, "test-roasters")
		require.NoError(t, coffees.CreateCoffee(ctx, &beanatlas.Coffee{
			RoasterID: roaster.ID,
			Name:      "Guji Natural",
		}))

		require.NoError(t, roasters.DeleteRoaster(ctx, roaster.ID))

		_, err := roasters.FindRoasterByID(ctx, roaster.ID)
		assert.Equal(t, beanatlas.ENOTFOUND, beanatlas.ErrorCode(err))

		left, err := coffees.FindCoffees(ctx, beanatlas.CoffeeFilter{RoasterID: &roaster.ID})
		require.NoError(t, err)
		assert.Empty(t, left)
	})

	t.Run("returns ENOTFOUND for missing roaster", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRoasterService(setupTestDB(t))
		err := svc.DeleteRoaster(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, beanatlas.ENOTFOUND, beanatlas.ErrorCode(err))
	})
}
