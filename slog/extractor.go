package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/beanatlas/beanatlas"
)

// Ensure LoggingExtractor implements beanatlas.Extractor.
var _ beanatlas.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with operation logging. Oracle calls
// are the slowest and most expensive part of a crawl, so both tiers log
// durations.
type LoggingExtractor struct {
	next   beanatlas.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next beanatlas.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractCatalog delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) ExtractCatalog(ctx context.Context, roasterName string, urls []string) (coffees []*beanatlas.Coffee, err error) {
	defer func(begin time.Time) {
		e.logger.Info("catalog extraction",
			"roaster", roasterName,
			"urls", len(urls),
			"records", len(coffees),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractCatalog(ctx, roasterName, urls)
}

// ExtractProduct delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) ExtractProduct(ctx context.Context, pageText, roasterName, sourceURL string) (coffee *beanatlas.Coffee, err error) {
	defer func(begin time.Time) {
		e.logger.Info("product extraction",
			"roaster", roasterName,
			"url", sourceURL,
			"found", coffee != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractProduct(ctx, pageText, roasterName, sourceURL)
}
