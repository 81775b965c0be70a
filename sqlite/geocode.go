package sqlite

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/beanatlas/beanatlas"
)

// Compile-time interface verification.
var _ beanatlas.GeocodeCache = (*GeocodeCache)(nil)

// GeocodeCache implements beanatlas.GeocodeCache using SQLite. Entries are
// keyed by (location name, country, region) and created once: the first
// successful resolution wins.
type GeocodeCache struct {
	db *DB
}

// NewGeocodeCache creates a new GeocodeCache.
func NewGeocodeCache(db *DB) *GeocodeCache {
	return &GeocodeCache{db: db}
}

// FindGeocode retrieves a cached entry.
func (c *GeocodeCache) FindGeocode(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error) {
	var geocode beanatlas.Geocode
	var boundingBox string

	err := c.db.QueryRowContext(ctx, `
		SELECT location_name, country, region, latitude, longitude, bounding_box, source
		FROM geocode_cache
		WHERE location_name = ? AND country = ? AND region = ?
	`, locationName, country, region).Scan(&geocode.LocationName, &geocode.Country,
		&geocode.Region, &geocode.Latitude, &geocode.Longitude, &boundingBox, &geocode.Source)

	if err == sql.ErrNoRows {
		return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "geocode not cached")
	}
	if err != nil {
		return nil, err
	}

	if boundingBox != "" {
		box, err := parseBoundingBox(boundingBox)
		if err != nil {
			return nil, err
		}
		geocode.BoundingBox = box
	}

	return &geocode, nil
}

// CreateGeocode stores a new entry. Coordinates are validated first; an
// out-of-range entry must never be created.
func (c *GeocodeCache) CreateGeocode(ctx context.Context, geocode *beanatlas.Geocode) error {
	if err := geocode.Validate(); err != nil {
		return err
	}

	// INSERT OR IGNORE keeps the first resolution; report the conflict so
	// callers can tell.
	result, err := c.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO geocode_cache
			(location_name, country, region, latitude, longitude, bounding_box, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, geocode.LocationName, geocode.Country, geocode.Region,
		geocode.Latitude, geocode.Longitude, formatBoundingBox(geocode.BoundingBox),
		geocode.Source, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return beanatlas.Errorf(beanatlas.ECONFLICT, "geocode already cached")
	}
	return nil
}

func formatBoundingBox(box []float64) string {
	if len(box) == 0 {
		return ""
	}
	parts := make([]string, len(box))
	for i, v := range box {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func parseBoundingBox(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	box := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, beanatlas.Errorf(beanatlas.EINTERNAL, "malformed bounding box %q", s)
		}
		box[i] = v
	}
	return box, nil
}
