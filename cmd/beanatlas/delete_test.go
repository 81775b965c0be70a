package main_test

import (
	"context"
	"testing"

	"github.com/beanatlas/beanatlas"
	main "github.com/beanatlas/beanatlas/cmd/beanatlas"
	"github.com/beanatlas/beanatlas/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes roaster by name", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		var deletedID string
		deps.Roasters = &mock.RoasterService{
			FindRoastersFn: func(ctx context.Context, filter beanatlas.RoasterFilter) ([]*beanatlas.Roaster, error) {
				require.NotNil(t, filter.Name)
				assert.Equal(t, "Test Roasters", *filter.Name)
				return []*beanatlas.Roaster{{ID: "r1", Name: "Test Roasters"}}, nil
			},
			DeleteRoasterFn: func(ctx context.Context, id string) error {
				deletedID = id
				return nil
			},
		}

		cmd := &main.DeleteCmd{Name: "Test Roasters", Force: true}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "r1", deletedID)
		assert.Contains(t, stdout.String(), `Deleted roaster "Test Roasters"`)
	})

	t.Run("requires --force", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()
		cmd := &main.DeleteCmd{Name: "Test Roasters"}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, beanatlas.EINVALID, beanatlas.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("reports unknown roaster", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()
		deps.Roasters = &mock.RoasterService{
			FindRoastersFn: func(ctx context.Context, filter beanatlas.RoasterFilter) ([]*beanatlas.Roaster, error) {
				return nil, nil
			},
		}

		cmd := &main.DeleteCmd{Name: "Missing Roasters", Force: true}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, beanatlas.ENOTFOUND, beanatlas.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})
}
