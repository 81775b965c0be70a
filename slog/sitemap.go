// Package slog provides logging decorators for beanatlas services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/beanatlas/beanatlas"
)

var _ beanatlas.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with operation logging.
// Discovery is the first network touch of every roaster crawl, so the URL
// count in these lines is where a stale or misconfigured sitemap shows up
// first.
type LoggingSitemapService struct {
	next   beanatlas.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next beanatlas.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service, logging the post-filter
// URL count and duration.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"filtered", filter != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
