package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/beanatlas/beanatlas"
)

// Ensure LoggingGeocodeService implements beanatlas.GeocodeService.
var _ beanatlas.GeocodeService = (*LoggingGeocodeService)(nil)

// LoggingGeocodeService wraps a GeocodeService with operation logging,
// including which source tier produced the result.
type LoggingGeocodeService struct {
	next   beanatlas.GeocodeService
	logger *slog.Logger
}

// NewLoggingGeocodeService creates a new LoggingGeocodeService.
func NewLoggingGeocodeService(next beanatlas.GeocodeService, logger *slog.Logger) *LoggingGeocodeService {
	return &LoggingGeocodeService{next: next, logger: logger}
}

// Resolve delegates to the wrapped service and logs the operation.
func (s *LoggingGeocodeService) Resolve(ctx context.Context, locationName, country, region string) (geo *beanatlas.Geocode, err error) {
	defer func(begin time.Time) {
		s.logger.Info("geocode resolve",
			"location", locationName,
			"country", country,
			"region", region,
			"source", geocodeSource(geo),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Resolve(ctx, locationName, country, region)
}

// ResolveCountry delegates to the wrapped service and logs the operation.
func (s *LoggingGeocodeService) ResolveCountry(ctx context.Context, country string) (geo *beanatlas.Geocode, err error) {
	defer func(begin time.Time) {
		s.logger.Info("geocode resolve country",
			"country", country,
			"source", geocodeSource(geo),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ResolveCountry(ctx, country)
}

func geocodeSource(geo *beanatlas.Geocode) string {
	if geo == nil {
		return ""
	}
	return geo.Source
}
