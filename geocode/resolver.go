// Package geocode provides cache-first coordinate resolution for coffee
// origins with a tiered fallback chain: cache, primary geocoding service,
// LLM coordinate guess.
package geocode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/beanatlas/beanatlas"
	"golang.org/x/time/rate"
)

// Compile-time interface verification.
var _ beanatlas.GeocodeService = (*Resolver)(nil)

// Resolver resolves origins cache-first. The primary geocoding service is
// protected by a single process-wide throttle shared across all callers:
// whoever wants to hit the service waits out the remainder of the current
// one-second window before proceeding.
type Resolver struct {
	cache    beanatlas.GeocodeCache
	primary  beanatlas.GeocodePrimary
	guesser  beanatlas.CoordinateGuesser
	throttle *rate.Limiter
	logger   *slog.Logger
}

// NewResolver creates a Resolver. A nil throttle gets the default global
// 1-request-per-second limiter with no bursting; tests inject a permissive
// limiter for determinism.
func NewResolver(cache beanatlas.GeocodeCache, primary beanatlas.GeocodePrimary, guesser beanatlas.CoordinateGuesser, throttle *rate.Limiter, logger *slog.Logger) *Resolver {
	if throttle == nil {
		throttle = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cache:    cache,
		primary:  primary,
		guesser:  guesser,
		throttle: throttle,
		logger:   logger,
	}
}

// Resolve looks up coordinates for a location within a country/region.
func (r *Resolver) Resolve(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error) {
	return r.resolve(ctx, strings.TrimSpace(locationName), strings.TrimSpace(country), strings.TrimSpace(region))
}

// ResolveCountry resolves a country by itself, with region omitted from
// both the cache key and the query.
func (r *Resolver) ResolveCountry(ctx context.Context, country string) (*beanatlas.Geocode, error) {
	return r.resolve(ctx, "", strings.TrimSpace(country), "")
}

func (r *Resolver) resolve(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error) {
	if locationName == "" && country == "" {
		return nil, beanatlas.Errorf(beanatlas.EINVALID, "location name or country required")
	}

	cached, err := r.cache.FindGeocode(ctx, locationName, country, region)
	if err == nil {
		return cached, nil
	}
	if beanatlas.ErrorCode(err) != beanatlas.ENOTFOUND {
		return nil, err
	}

	query := BuildQuery(locationName, country, region)

	resolved, err := r.fromPrimary(ctx, query, country)
	if err != nil || resolved == nil {
		if err != nil {
			r.logger.Warn("primary geocoding failed", "query", query, "err", err)
		}
		resolved, err = r.fromGuesser(ctx, query)
		if err != nil {
			return nil, err
		}
	}

	resolved.LocationName = locationName
	resolved.Country = country
	resolved.Region = region

	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	// First successful resolution wins; a concurrent writer beating us to
	// the key is not an error.
	if err := r.cache.CreateGeocode(ctx, resolved); err != nil &&
		beanatlas.ErrorCode(err) != beanatlas.ECONFLICT {
		r.logger.Warn("cache geocode", "query", query, "err", err)
	}

	return resolved, nil
}

// fromPrimary queries the primary geocoding service under the global
// throttle. A nil result with nil error means the service found nothing.
func (r *Resolver) fromPrimary(ctx context.Context, query, country string) (*beanatlas.Geocode, error) {
	if err := r.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := r.primary.Geocode(ctx, query, countryCode(country))
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	result.Source = beanatlas.GeocodeSourceAPI
	return result, nil
}

// fromGuesser asks the LLM for a strict lat/lon pair. Out-of-range answers
// are rejected and nothing is cached.
func (r *Resolver) fromGuesser(ctx context.Context, address string) (*beanatlas.Geocode, error) {
	if r.guesser == nil {
		return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "no geocoding result for %q", address)
	}

	lat, lon, err := r.guesser.GuessCoordinates(ctx, address)
	if err != nil {
		return nil, err
	}

	guess := &beanatlas.Geocode{
		Latitude:  lat,
		Longitude: lon,
		Source:    beanatlas.GeocodeSourceLLM,
	}
	if err := guess.Validate(); err != nil {
		return nil, err
	}
	return guess, nil
}

// BuildQuery constructs the free-text geocoding query. Preference order:
// full location name (with the country appended when distinct and not
// already contained), then region+country, then country alone.
func BuildQuery(locationName, country, region string) string {
	if locationName != "" && !strings.EqualFold(locationName, country) {
		if country != "" && !strings.Contains(strings.ToLower(locationName), strings.ToLower(country)) {
			return locationName + ", " + country
		}
		return locationName
	}
	if region != "" && country != "" {
		return region + ", " + country
	}
	return country
}

// countryCode passes a country through as a filter only when it already
// looks like an ISO 3166-1 alpha-2 code.
func countryCode(country string) string {
	if len(country) == 2 {
		return strings.ToLower(country)
	}
	return ""
}
