package crawl

import (
	"context"
	"time"

	"github.com/beanatlas/beanatlas"
)

// Retry defaults for oracle calls. Backoff is linear, keyed to the attempt
// index: 2s, 4s, 6s.
const (
	DefaultMaxAttempts = 3
	DefaultBackoffStep = 2000 * time.Millisecond
)

// retryLinear runs fn up to attempts times, sleeping step×n after the nth
// failure. Returns the last error once attempts are exhausted.
func retryLinear(ctx context.Context, attempts int, step time.Duration, onRetry func(attempt int, err error), fn func() error) error {
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		if onRetry != nil {
			onRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step * time.Duration(attempt)):
		}
	}

	return lastErr
}

// extractCatalogWithRetry wraps the bulk oracle call. Exhausted retries
// degrade to an empty candidate list so the quality gate sees the failure as
// a zero-yield run instead of the crawl aborting.
func (c *Crawler) extractCatalogWithRetry(ctx context.Context, roaster *beanatlas.Roaster, urls []string) []*beanatlas.Coffee {
	var candidates []*beanatlas.Coffee
	err := retryLinear(ctx, c.MaxAttempts, c.backoffStep(), c.logRetry(roaster.Name, ""), func() error {
		var err error
		candidates, err = c.Extractor.ExtractCatalog(ctx, roaster.Name, urls)
		return err
	})
	if err != nil {
		c.logger().Error("bulk extraction exhausted retries",
			"roaster", roaster.Name, "urls", len(urls), "err", err)
		return nil
	}
	return candidates
}

// extractProductWithRetry wraps the per-item oracle call and surfaces the
// error after exhaustion. The fallback stage needs the failure to abort.
func (c *Crawler) extractProductWithRetry(ctx context.Context, pageText string, roaster *beanatlas.Roaster, url string) (*beanatlas.Coffee, error) {
	var coffee *beanatlas.Coffee
	err := retryLinear(ctx, c.MaxAttempts, c.backoffStep(), c.logRetry(roaster.Name, url), func() error {
		var err error
		coffee, err = c.Extractor.ExtractProduct(ctx, pageText, roaster.Name, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	return coffee, nil
}

// extractProductOrPlaceholder is the degrading variant used by single-item
// crawls: after exhausting attempts it returns a placeholder record instead
// of raising, so callers always receive a well-formed result and the loop
// can continue to the next item.
func (c *Crawler) extractProductOrPlaceholder(ctx context.Context, pageText string, roaster *beanatlas.Roaster, url string) *beanatlas.Coffee {
	coffee, err := c.extractProductWithRetry(ctx, pageText, roaster, url)
	if err == nil && coffee != nil && coffee.Name != "" {
		coffee.RoasterID = roaster.ID
		coffee.SourceURL = url
		return coffee
	}

	placeholder := &beanatlas.Coffee{
		RoasterID: roaster.ID,
		Name:      "Unknown",
		SourceURL: url,
		Status:    beanatlas.StatusError,
	}
	if err != nil {
		placeholder.StatusMessage = err.Error()
	} else {
		placeholder.StatusMessage = "extraction returned no usable record"
	}
	return placeholder
}

func (c *Crawler) logRetry(roaster, url string) func(int, error) {
	return func(attempt int, err error) {
		c.logger().Warn("retrying oracle call",
			"roaster", roaster, "url", url, "attempt", attempt, "err", err)
	}
}

func (c *Crawler) backoffStep() time.Duration {
	if c.BackoffStep > 0 {
		return c.BackoffStep
	}
	return DefaultBackoffStep
}
