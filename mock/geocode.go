package mock

import (
	"context"

	"github.com/beanatlas/beanatlas"
)

var _ beanatlas.GeocodeService = (*GeocodeService)(nil)

// GeocodeService is a mock implementation of beanatlas.GeocodeService.
type GeocodeService struct {
	ResolveFn        func(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error)
	ResolveCountryFn func(ctx context.Context, country string) (*beanatlas.Geocode, error)
}

func (s *GeocodeService) Resolve(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error) {
	return s.ResolveFn(ctx, locationName, country, region)
}

func (s *GeocodeService) ResolveCountry(ctx context.Context, country string) (*beanatlas.Geocode, error) {
	return s.ResolveCountryFn(ctx, country)
}

var _ beanatlas.GeocodeCache = (*GeocodeCache)(nil)

// GeocodeCache is a mock implementation of beanatlas.GeocodeCache.
type GeocodeCache struct {
	FindGeocodeFn   func(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error)
	CreateGeocodeFn func(ctx context.Context, geocode *beanatlas.Geocode) error
}

func (c *GeocodeCache) FindGeocode(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error) {
	return c.FindGeocodeFn(ctx, locationName, country, region)
}

func (c *GeocodeCache) CreateGeocode(ctx context.Context, geocode *beanatlas.Geocode) error {
	return c.CreateGeocodeFn(ctx, geocode)
}

var _ beanatlas.GeocodePrimary = (*GeocodePrimary)(nil)

// GeocodePrimary is a mock implementation of beanatlas.GeocodePrimary.
type GeocodePrimary struct {
	GeocodeFn func(ctx context.Context, query, countryCode string) (*beanatlas.Geocode, error)
}

func (p *GeocodePrimary) Geocode(ctx context.Context, query, countryCode string) (*beanatlas.Geocode, error) {
	return p.GeocodeFn(ctx, query, countryCode)
}

var _ beanatlas.CoordinateGuesser = (*CoordinateGuesser)(nil)

// CoordinateGuesser is a mock implementation of beanatlas.CoordinateGuesser.
type CoordinateGuesser struct {
	GuessCoordinatesFn func(ctx context.Context, address string) (lat, lon float64, err error)
}

func (g *CoordinateGuesser) GuessCoordinates(ctx context.Context, address string) (float64, float64, error) {
	return g.GuessCoordinatesFn(ctx, address)
}
