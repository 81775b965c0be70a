package beanatlas

import (
	"context"
	"time"
)

// Coffee statuses recorded after a persistence attempt.
const (
	StatusDone  = "done"
	StatusError = "error"
)

// Coffee represents a single coffee product extracted from a roaster's
// catalog. One logical coffee may be created or updated across crawl runs,
// matched by roaster + name.
type Coffee struct {
	ID        string `json:"id"`
	RoasterID string `json:"roasterId"`

	Name         string   `json:"name"`
	Origin       string   `json:"origin"`
	Region       string   `json:"region"`
	Process      string   `json:"process"`
	Producer     string   `json:"producer"`
	Variety      string   `json:"variety"`
	Altitude     string   `json:"altitude"`
	TastingNotes []string `json:"tastingNotes"`
	Price        string   `json:"price"`
	InStock      bool     `json:"inStock"`
	Description  string   `json:"description"`
	SourceURL    string   `json:"sourceUrl"`

	// ContentHash fingerprints the extracted content so unchanged pages can
	// be skipped on subsequent crawls.
	ContentHash string `json:"contentHash"`

	// Status records the outcome of the last persistence attempt. Error
	// outcomes still persist a minimal placeholder so the failure is visible
	// and retry-able later.
	Status        string `json:"status"`
	StatusMessage string `json:"statusMessage"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the coffee contains invalid fields.
// A coffee must never be persisted with both name and status missing.
func (c *Coffee) Validate() error {
	if c.RoasterID == "" {
		return Errorf(EINVALID, "coffee roaster ID required")
	}
	if c.Name == "" && c.Status == "" {
		return Errorf(EINVALID, "coffee requires a name or an explicit status")
	}
	if c.Status == StatusDone && c.Name == "" {
		return Errorf(EINVALID, "coffee name required for done status")
	}
	return nil
}

// CoffeeService represents a service for managing extracted coffees.
type CoffeeService interface {
	// CreateCoffee creates a new coffee.
	CreateCoffee(ctx context.Context, coffee *Coffee) error

	// FindCoffeeByName retrieves a coffee by roaster and product name.
	// Returns ENOTFOUND if no such coffee exists.
	FindCoffeeByName(ctx context.Context, roasterID, name string) (*Coffee, error)

	// FindCoffees retrieves coffees matching the filter.
	FindCoffees(ctx context.Context, filter CoffeeFilter) ([]*Coffee, error)

	// UpdateCoffee updates an existing coffee.
	// Returns ENOTFOUND if coffee does not exist.
	UpdateCoffee(ctx context.Context, id string, upd CoffeeUpdate) (*Coffee, error)

	// DeleteCoffees permanently removes a batch of coffees by ID.
	DeleteCoffees(ctx context.Context, ids []string) error

	// CountCoffeesByRoaster returns per-roaster coffee counts for reporting.
	CountCoffeesByRoaster(ctx context.Context) (map[string]int, error)
}

// CoffeeFilter represents a filter for FindCoffees.
type CoffeeFilter struct {
	ID        *string `json:"id"`
	RoasterID *string `json:"roasterId"`
	Status    *string `json:"status"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CoffeeUpdate represents fields that can be updated on a coffee.
type CoffeeUpdate struct {
	Name          *string   `json:"name"`
	Origin        *string   `json:"origin"`
	Region        *string   `json:"region"`
	Process       *string   `json:"process"`
	Producer      *string   `json:"producer"`
	Variety       *string   `json:"variety"`
	Altitude      *string   `json:"altitude"`
	TastingNotes  *[]string `json:"tastingNotes"`
	Price         *string   `json:"price"`
	InStock       *bool     `json:"inStock"`
	Description   *string   `json:"description"`
	SourceURL     *string   `json:"sourceUrl"`
	ContentHash   *string   `json:"contentHash"`
	Status        *string   `json:"status"`
	StatusMessage *string   `json:"statusMessage"`
}

// GraphSyncer pushes persisted coffees to an external knowledge graph.
// Sync is best-effort: callers log and ignore failures.
type GraphSyncer interface {
	SyncCoffee(ctx context.Context, coffee *Coffee) error
}
