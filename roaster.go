package beanatlas

import (
	"context"
	"time"
)

// Roaster represents a coffee roaster whose catalog is crawled.
type Roaster struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	WebsiteURL string    `json:"websiteUrl"`
	SitemapURL string    `json:"sitemapUrl"`
	Approved   bool      `json:"approved"`

	// LastCrawledAt is updated after every crawl attempt, successful or not,
	// so that periodic crawl intervals stay meaningful.
	LastCrawledAt time.Time `json:"lastCrawledAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the roaster contains invalid fields.
func (r *Roaster) Validate() error {
	if r.Name == "" {
		return Errorf(EINVALID, "roaster name required")
	}
	if r.WebsiteURL == "" {
		return Errorf(EINVALID, "roaster website URL required")
	}
	return nil
}

// RoasterService represents a service for managing roasters.
type RoasterService interface {
	// CreateRoaster creates a new roaster.
	CreateRoaster(ctx context.Context, roaster *Roaster) error

	// FindRoasterByID retrieves a roaster by ID.
	// Returns ENOTFOUND if roaster does not exist.
	FindRoasterByID(ctx context.Context, id string) (*Roaster, error)

	// FindRoasters retrieves roasters matching the filter.
	FindRoasters(ctx context.Context, filter RoasterFilter) ([]*Roaster, error)

	// UpdateRoaster updates an existing roaster.
	// Returns ENOTFOUND if roaster does not exist.
	UpdateRoaster(ctx context.Context, id string, upd RoasterUpdate) (*Roaster, error)

	// MarkCrawled records a crawl attempt timestamp for the roaster.
	MarkCrawled(ctx context.Context, id string, at time.Time) error

	// DeleteRoaster permanently removes a roaster and all associated coffees.
	// Returns ENOTFOUND if roaster does not exist.
	DeleteRoaster(ctx context.Context, id string) error
}

// RoasterFilter represents a filter for FindRoasters.
type RoasterFilter struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	Approved *bool   `json:"approved"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RoasterUpdate represents fields that can be updated on a roaster.
type RoasterUpdate struct {
	Name       *string `json:"name"`
	WebsiteURL *string `json:"websiteUrl"`
	SitemapURL *string `json:"sitemapUrl"`
	Approved   *bool   `json:"approved"`
}
