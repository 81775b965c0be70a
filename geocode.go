package beanatlas

import "context"

// Geocode source tags recorded on cache entries. First successful
// resolution wins; entries are never overwritten.
const (
	GeocodeSourceCache  = "cache-origin"
	GeocodeSourceAPI    = "geocode-api"
	GeocodeSourceLLM    = "llm-fallback"
	GeocodeSourceSeeded = "seeded"
)

// Geocode holds resolved coordinates for a coffee origin.
type Geocode struct {
	LocationName string  `json:"locationName"`
	Country      string  `json:"country"`
	Region       string  `json:"region"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	// BoundingBox is [south, north, west, east] when the geocoding service
	// provides one; nil otherwise.
	BoundingBox []float64 `json:"boundingBox,omitempty"`

	Source string `json:"source"`
}

// Validate returns an error if the coordinates are outside legal bounds.
func (g *Geocode) Validate() error {
	if g.Latitude < -90 || g.Latitude > 90 {
		return Errorf(EINVALID, "latitude %v out of range", g.Latitude)
	}
	if g.Longitude < -180 || g.Longitude > 180 {
		return Errorf(EINVALID, "longitude %v out of range", g.Longitude)
	}
	return nil
}

// GeocodeService resolves coffee origins to coordinates, cache-first with a
// tiered fallback chain behind it.
type GeocodeService interface {
	// Resolve looks up coordinates for a location within a country/region.
	// Returns ENOTFOUND when no tier could produce a valid result.
	Resolve(ctx context.Context, locationName, country, region string) (*Geocode, error)

	// ResolveCountry is the country-only variant, with region omitted from
	// both the cache key and the query.
	ResolveCountry(ctx context.Context, country string) (*Geocode, error)
}

// GeocodeCache persists resolved coordinates keyed by (name, country,
// region). Entries are created once and never overwritten.
type GeocodeCache interface {
	// FindGeocode retrieves a cached entry.
	// Returns ENOTFOUND on a cache miss.
	FindGeocode(ctx context.Context, locationName, country, region string) (*Geocode, error)

	// CreateGeocode stores a new entry. Returns ECONFLICT if an entry for
	// the key already exists.
	CreateGeocode(ctx context.Context, geocode *Geocode) error
}

// GeocodePrimary is the primary geocoding service: a free-text query with an
// optional country-code filter returning zero or one best match. A nil
// result with nil error means the service found nothing.
type GeocodePrimary interface {
	Geocode(ctx context.Context, query, countryCode string) (*Geocode, error)
}

// CoordinateGuesser is the LLM-based last resort. Given a natural-language
// address it must return a strict lat/lon pair; callers validate bounds and
// reject anything else.
type CoordinateGuesser interface {
	GuessCoordinates(ctx context.Context, address string) (lat, lon float64, err error)
}
