package main

import (
	"fmt"
	"strings"

	"github.com/beanatlas/beanatlas"
)

// Run executes the geocode command.
func (c *GeocodeCmd) Run(deps *Dependencies) error {
	if c.Lat != nil || c.Lon != nil {
		return c.seed(deps)
	}

	var geo *beanatlas.Geocode
	var err error
	if c.Location == "" && c.Country != "" {
		geo, err = deps.Geocoder.ResolveCountry(deps.Ctx, c.Country)
	} else {
		geo, err = deps.Geocoder.Resolve(deps.Ctx, c.Location, c.Country, c.Region)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %.6f, %.6f (%s)\n",
		geo.LocationName, geo.Latitude, geo.Longitude, geo.Source)
	if len(geo.BoundingBox) == 4 {
		fmt.Fprintf(deps.Stdout, "  bounding box: %v\n", geo.BoundingBox)
	}

	return nil
}

// seed stores user-supplied coordinates in the geocode cache so later
// resolutions of the same key skip the resolver chain entirely. The key
// must match what the resolver would look up, so inputs are trimmed the
// same way.
func (c *GeocodeCmd) seed(deps *Dependencies) error {
	if c.Lat == nil || c.Lon == nil {
		err := beanatlas.Errorf(beanatlas.EINVALID, "--lat and --lon must be given together")
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	geo := &beanatlas.Geocode{
		LocationName: strings.TrimSpace(c.Location),
		Country:      strings.TrimSpace(c.Country),
		Region:       strings.TrimSpace(c.Region),
		Latitude:     *c.Lat,
		Longitude:    *c.Lon,
		Source:       beanatlas.GeocodeSourceSeeded,
	}
	if geo.LocationName == "" && geo.Country == "" {
		err := beanatlas.Errorf(beanatlas.EINVALID, "a location or country is required to seed")
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}
	if err := geo.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	if err := deps.Geocodes.CreateGeocode(deps.Ctx, geo); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beanatlas.ErrorMessage(err))
		return err
	}

	name := geo.LocationName
	if name == "" {
		name = geo.Country
	}
	fmt.Fprintf(deps.Stdout, "Seeded %s: %.6f, %.6f\n", name, geo.Latitude, geo.Longitude)
	return nil
}
