// Package crawl orchestrates the adaptive extraction pipeline: sitemap
// discovery, a cheap bulk oracle pass, statistical quality gating, a
// per-item render-then-extract fallback, and chunked persistence.
package crawl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/beanatlas/beanatlas"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel roaster crawls in CrawlAll.
const DefaultConcurrency = 4

// Crawler composes the pipeline stages into per-roaster and per-product
// crawl flows. Roaster crawls may run in parallel across roasters; within a
// roaster the fallback stage is strictly sequential.
type Crawler struct {
	Roasters   beanatlas.RoasterService
	Coffees    beanatlas.CoffeeService
	Sitemaps   beanatlas.SitemapService
	Extractor  beanatlas.Extractor
	Renderer   beanatlas.Renderer
	Classifier beanatlas.URLClassifier // optional semantic URL filter
	Fetcher    beanatlas.Fetcher       // optional static-fetch probe
	Content    beanatlas.ContentExtractor
	Markdown   beanatlas.Converter
	Graph      beanatlas.GraphSyncer // optional, fire-and-forget

	// JSDetector classifies HTML as JavaScript-rendered, pre-selecting the
	// browser path for single-product crawls. Nil means always render.
	JSDetector func(html string) bool

	Logger *slog.Logger

	Gate        GateConfig
	Filter      *beanatlas.URLFilter
	ChunkSize   int
	MaxAttempts int
	BackoffStep time.Duration
	Concurrency int
}

// Result holds the outcome of a roaster crawl.
type Result struct {
	RoasterID    string
	URLs         int
	BaseProducts int
	Metrics      Metrics
	UsedFallback bool
	Fallback     *FallbackResult
	Saved        int
	Failed       int
	Skipped      int
}

// CrawlRoaster runs the end-to-end pipeline for one roaster. The roaster's
// last-crawl timestamp is updated after every terminal outcome, success or
// not, so periodic crawl intervals stay meaningful.
func (c *Crawler) CrawlRoaster(ctx context.Context, roaster *beanatlas.Roaster) (*Result, error) {
	result := &Result{RoasterID: roaster.ID}

	defer func() {
		if err := c.Roasters.MarkCrawled(ctx, roaster.ID, time.Now().UTC()); err != nil {
			c.logger().Error("mark crawled", "roaster", roaster.Name, "err", err)
		}
	}()

	urls, err := c.discoverProductURLs(ctx, roaster)
	if err != nil {
		return result, err
	}
	result.URLs = len(urls)
	if len(urls) == 0 {
		c.logger().Info("no product URLs discovered", "roaster", roaster.Name)
		return result, nil
	}

	result.BaseProducts = UniqueBaseProducts(urls)

	candidates := c.extractCatalogWithRetry(ctx, roaster, urls)
	result.Metrics = AssessQuality(candidates, result.BaseProducts)

	c.logger().Info("bulk extraction assessed",
		"roaster", roaster.Name,
		"urls", len(urls),
		"base_products", result.BaseProducts,
		"candidates", result.Metrics.Candidates,
		"empty_pct", result.Metrics.EmptyPercentage,
		"extraction_rate", result.Metrics.ExtractionRate)

	writer := NewWriter(c.Coffees, c.Graph, c.logger(), c.ChunkSize)
	sink := func(ctx context.Context, coffee *beanatlas.Coffee) error {
		skipped, err := c.stage(ctx, writer, coffee)
		if skipped {
			result.Skipped++
		}
		return err
	}

	var fallbackErr error
	if c.Gate.ShouldFallback(result.Metrics, len(urls)) {
		result.UsedFallback = true
		c.logger().Info("quality gate triggered fallback", "roaster", roaster.Name)
		result.Fallback, fallbackErr = c.fallbackRun(ctx, roaster, urls, sink)
	} else {
		for _, coffee := range candidates {
			if coffee == nil || coffee.Name == "" {
				continue
			}
			coffee.RoasterID = roaster.ID
			if coffee.ContentHash == "" {
				coffee.ContentHash = recordFingerprint(coffee)
			}
			if err := sink(ctx, coffee); err != nil {
				return result, err
			}
		}
	}

	// Flush the partial remainder even when the fallback aborted: records
	// staged before the abort are still good.
	if err := writer.Flush(ctx); err != nil {
		return result, err
	}

	stats := writer.Stats()
	result.Saved = stats.Saved
	result.Failed = stats.Failed

	return result, fallbackErr
}

// stage decides between persisting a record and skipping it because the
// source content is fingerprint-equal to what is already stored.
func (c *Crawler) stage(ctx context.Context, writer *Writer, coffee *beanatlas.Coffee) (skipped bool, err error) {
	if coffee.Status != beanatlas.StatusError && coffee.Name != "" {
		existing, err := c.Coffees.FindCoffeeByName(ctx, coffee.RoasterID, coffee.Name)
		if err != nil && beanatlas.ErrorCode(err) != beanatlas.ENOTFOUND {
			return false, err
		}
		if existing != nil && !beanatlas.FingerprintChanged(coffee.ContentHash, existing.ContentHash) {
			c.logger().Debug("no update needed", "coffee", coffee.Name, "url", coffee.SourceURL)
			return true, nil
		}
	}
	return false, writer.Push(ctx, coffee)
}

// CrawlProduct crawls a single product URL: static probe, browser render
// when the page needs JavaScript, per-item extraction with retry, and
// persistence. It always persists a well-formed record; exhausted retries
// produce an error-status placeholder.
func (c *Crawler) CrawlProduct(ctx context.Context, roaster *beanatlas.Roaster, url string) (*beanatlas.Coffee, error) {
	text, err := c.pageText(ctx, url)

	var coffee *beanatlas.Coffee
	if err != nil || text == "" {
		coffee = &beanatlas.Coffee{
			RoasterID: roaster.ID,
			Name:      "Unknown",
			SourceURL: url,
			Status:    beanatlas.StatusError,
			StatusMessage: func() string {
				if err != nil {
					return err.Error()
				}
				return "page produced no visible text"
			}(),
		}
	} else {
		coffee = c.extractProductOrPlaceholder(ctx, text, roaster, url)
		if coffee.Status != beanatlas.StatusError {
			coffee.ContentHash = beanatlas.Fingerprint(text)
		}
	}

	writer := NewWriter(c.Coffees, c.Graph, c.logger(), 1)
	if _, err := c.stage(ctx, writer, coffee); err != nil {
		return coffee, err
	}
	if err := writer.Flush(ctx); err != nil {
		return coffee, err
	}

	return coffee, nil
}

// pageText turns a URL into extracted visible text. A static fetch is tried
// first when a probe stack is configured; pages classified as
// JavaScript-rendered go through the browser.
func (c *Crawler) pageText(ctx context.Context, url string) (string, error) {
	if c.Fetcher != nil && c.Content != nil && c.Markdown != nil && c.JSDetector != nil {
		html, err := c.Fetcher.Fetch(ctx, url)
		if err == nil && html != "" && !c.JSDetector(html) {
			extracted, err := c.Content.Extract(html)
			if err == nil && extracted.ContentHTML != "" {
				text, err := c.Markdown.Convert(extracted.ContentHTML)
				if err == nil && text != "" {
					return text, nil
				}
			}
			// Static extraction came up empty; fall through to the browser.
		}
	}
	return c.Renderer.RenderText(ctx, url)
}

// RetryResult reports a RetryFailed run.
type RetryResult struct {
	Attempted int
	Recovered int
}

// RetryFailed re-runs the single-product crawl for every coffee flagged
// with an error status for the roaster. Recovered placeholders are removed
// when the fresh record landed under a different name.
func (c *Crawler) RetryFailed(ctx context.Context, roaster *beanatlas.Roaster) (*RetryResult, error) {
	status := beanatlas.StatusError
	failed, err := c.Coffees.FindCoffees(ctx, beanatlas.CoffeeFilter{
		RoasterID: &roaster.ID,
		Status:    &status,
	})
	if err != nil {
		return nil, err
	}

	result := &RetryResult{}
	for _, old := range failed {
		if old.SourceURL == "" {
			continue
		}
		result.Attempted++

		coffee, err := c.CrawlProduct(ctx, roaster, old.SourceURL)
		if err != nil {
			c.logger().Error("retry failed record", "url", old.SourceURL, "err", err)
			continue
		}
		if coffee.Status == beanatlas.StatusError {
			continue
		}

		result.Recovered++
		if coffee.ID != old.ID {
			if err := c.Coffees.DeleteCoffees(ctx, []string{old.ID}); err != nil {
				c.logger().Warn("delete stale placeholder", "id", old.ID, "err", err)
			}
		}
	}

	return result, nil
}

// CrawlAll crawls every approved roaster with bounded parallelism. One
// roaster's failure doesn't stop the others.
func (c *Crawler) CrawlAll(ctx context.Context) ([]*Result, error) {
	approved := true
	roasters, err := c.Roasters.FindRoasters(ctx, beanatlas.RoasterFilter{Approved: &approved})
	if err != nil {
		return nil, err
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var mu sync.Mutex
	results := make([]*Result, 0, len(roasters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, roaster := range roasters {
		g.Go(func() error {
			result, err := c.CrawlRoaster(gctx, roaster)
			if err != nil {
				c.logger().Error("crawl roaster", "roaster", roaster.Name, "err", err)
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, nil
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// recordFingerprint hashes the fields of a bulk-extracted record. Bulk
// candidates have no page text to fingerprint, so the record itself stands
// in for the content.
func recordFingerprint(coffee *beanatlas.Coffee) string {
	parts := []string{
		coffee.Name, coffee.Origin, coffee.Region, coffee.Process,
		coffee.Producer, coffee.Variety, coffee.Altitude,
		strings.Join(coffee.TastingNotes, ","), coffee.Price,
		coffee.Description,
	}
	return beanatlas.Fingerprint(strings.Join(parts, "|"))
}
