// Package mock provides function-field test doubles for beanatlas services.
package mock

import (
	"context"
	"time"

	"github.com/beanatlas/beanatlas"
)

var _ beanatlas.RoasterService = (*RoasterService)(nil)

// RoasterService is a mock implementation of beanatlas.RoasterService.
type RoasterService struct {
	CreateRoasterFn   func(ctx context.Context, roaster *beanatlas.Roaster) error
	FindRoasterByIDFn func(ctx context.Context, id string) (*beanatlas.Roaster, error)
	FindRoastersFn    func(ctx context.Context, filter beanatlas.RoasterFilter) ([]*beanatlas.Roaster, error)
	UpdateRoasterFn   func(ctx context.Context, id string, upd beanatlas.RoasterUpdate) (*beanatlas.Roaster, error)
	MarkCrawledFn     func(ctx context.Context, id string, at time.Time) error
	DeleteRoasterFn   func(ctx context.Context, id string) error
}

func (s *RoasterService) CreateRoaster(ctx context.Context, roaster *beanatlas.Roaster) error {
	return s.CreateRoasterFn(ctx, roaster)
}

func (s *RoasterService) FindRoasterByID(ctx context.Context, id string) (*beanatlas.Roaster, error) {
	return s.FindRoasterByIDFn(ctx, id)
}

func (s *RoasterService) FindRoasters(ctx context.Context, filter beanatlas.RoasterFilter) ([]*beanatlas.Roaster, error) {
	return s.FindRoastersFn(ctx, filter)
}

func (s *RoasterService) UpdateRoaster(ctx context.Context, id string, upd beanatlas.RoasterUpdate) (*beanatlas.Roaster, error) {
	return s.UpdateRoasterFn(ctx, id, upd)
}

func (s *RoasterService) MarkCrawled(ctx context.Context, id string, at time.Time) error {
	return s.MarkCrawledFn(ctx, id, at)
}

func (s *RoasterService) DeleteRoaster(ctx context.Context, id string) error {
	return s.DeleteRoasterFn(ctx, id)
}
