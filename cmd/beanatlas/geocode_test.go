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

func TestGeocodeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("resolves a location", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.Geocoder = &mock.GeocodeService{
			ResolveFn: func(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error) {
				assert.Equal(t, "Guji", locationName)
				assert.Equal(t, "Ethiopia", country)
				return &beanatlas.Geocode{
					LocationName: "Guji",
					Latitude:     5.8244,
					Longitude:    39.1735,
					BoundingBox:  []float64{5.1, 6.5, 38.5, 39.9},
					Source:       beanatlas.GeocodeSourceAPI,
				}, nil
			},
		}

		cmd := &main.GeocodeCmd{Location: "Guji", Country: "Ethiopia"}
		require.NoError(t, cmd.Run(deps))
		output := stdout.String()
		assert.Contains(t, output, "Guji: 5.824400, 39.173500")
		assert.Contains(t, output, "bounding box:")
	})

	t.Run("country-only input uses ResolveCountry", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newTestDeps()
		called := false
		deps.Geocoder = &mock.GeocodeService{
			ResolveCountryFn: func(ctx context.Context, country string) (*beanatlas.Geocode, error) {
				called = true
				assert.Equal(t, "Ethiopia", country)
				return &beanatlas.Geocode{LocationName: "Ethiopia", Latitude: 9.1, Longitude: 40.5}, nil
			},
		}

		cmd := &main.GeocodeCmd{Country: "Ethiopia"}
		require.NoError(t, cmd.Run(deps))
		assert.True(t, called)
	})

	t.Run("seeds the cache with explicit coordinates", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		var seeded *beanatlas.Geocode
		deps.Geocodes = &mock.GeocodeCache{
			CreateGeocodeFn: func(ctx context.Context, geocode *beanatlas.Geocode) error {
				seeded = geocode
				return nil
			},
		}
		deps.Geocoder = &mock.GeocodeService{
			ResolveFn: func(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error) {
				t.Fatal("seeding must not hit the resolver chain")
				return nil, nil
			},
		}

		lat, lon := 5.8244, 39.1735
		cmd := &main.GeocodeCmd{Location: "Guji", Country: "Ethiopia", Lat: &lat, Lon: &lon}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, seeded)
		assert.Equal(t, "Guji", seeded.LocationName)
		assert.Equal(t, "Ethiopia", seeded.Country)
		assert.Equal(t, beanatlas.GeocodeSourceSeeded, seeded.Source)
		assert.Contains(t, stdout.String(), "Seeded Guji: 5.824400, 39.173500")
	})

	t.Run("rejects a lone coordinate flag", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()
		lat := 5.8244
		cmd := &main.GeocodeCmd{Location: "Guji", Lat: &lat}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, beanatlas.EINVALID, beanatlas.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--lat and --lon")
	})

	t.Run("rejects out-of-range seed coordinates", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()
		deps.Geocodes = &mock.GeocodeCache{
			CreateGeocodeFn: func(ctx context.Context, geocode *beanatlas.Geocode) error {
				t.Fatal("invalid coordinates must not reach the cache")
				return nil
			},
		}

		lat, lon := 123.0, 39.1735
		cmd := &main.GeocodeCmd{Location: "Guji", Lat: &lat, Lon: &lon}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, beanatlas.EINVALID, beanatlas.ErrorCode(err))
		assert.Contains(t, stderr.String(), "out of range")
	})

	t.Run("reports resolution failure", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()
		deps.Geocoder = &mock.GeocodeService{
			ResolveFn: func(ctx context.Context, locationName, country, region string) (*beanatlas.Geocode, error) {
				return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "no match for %q", locationName)
			},
		}

		cmd := &main.GeocodeCmd{Location: "Atlantis"}
		require.Error(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "no match")
	})
}
