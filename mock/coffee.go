package mock

import (
	"context"

	"github.com/beanatlas/beanatlas"
)

var _ beanatlas.CoffeeService = (*CoffeeService)(nil)

// CoffeeService is a mock implementation of beanatlas.CoffeeService.
type CoffeeService struct {
	CreateCoffeeFn          func(ctx context.Context, coffee *beanatlas.Coffee) error
	FindCoffeeByNameFn      func(ctx context.Context, roasterID, name string) (*beanatlas.Coffee, error)
	FindCoffeesFn           func(ctx context.Context, filter beanatlas.CoffeeFilter) ([]*beanatlas.Coffee, error)
	UpdateCoffeeFn          func(ctx context.Context, id string, upd beanatlas.CoffeeUpdate) (*beanatlas.Coffee, error)
	DeleteCoffeesFn         func(ctx context.Context, ids []string) error
	CountCoffeesByRoasterFn func(ctx context.Context) (map[string]int, error)
}

func (s *CoffeeService) CreateCoffee(ctx context.Context, coffee *beanatlas.Coffee) error {
	return s.CreateCoffeeFn(ctx, coffee)
}

func (s *CoffeeService) FindCoffeeByName(ctx context.Context, roasterID, name string) (*beanatlas.Coffee, error) {
	return s.FindCoffeeByNameFn(ctx, roasterID, name)
}

func (s *CoffeeService) FindCoffees(ctx context.Context, filter beanatlas.CoffeeFilter) ([]*beanatlas.Coffee, error) {
	return s.FindCoffeesFn(ctx, filter)
}

func (s *CoffeeService) UpdateCoffee(ctx context.Context, id string, upd beanatlas.CoffeeUpdate) (*beanatlas.Coffee, error) {
	return s.UpdateCoffeeFn(ctx, id, upd)
}

func (s *CoffeeService) DeleteCoffees(ctx context.Context, ids []string) error {
	return s.DeleteCoffeesFn(ctx, ids)
}

func (s *CoffeeService) CountCoffeesByRoaster(ctx context.Context) (map[string]int, error) {
	return s.CountCoffeesByRoasterFn(ctx)
}

var _ beanatlas.GraphSyncer = (*GraphSyncer)(nil)

// GraphSyncer is a mock implementation of beanatlas.GraphSyncer.
type GraphSyncer struct {
	SyncCoffeeFn func(ctx context.Context, coffee *beanatlas.Coffee) error
}

func (s *GraphSyncer) SyncCoffee(ctx context.Context, coffee *beanatlas.Coffee) error {
	return s.SyncCoffeeFn(ctx, coffee)
}
