package crawl_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/beanatlas/beanatlas"
	"github.com/beanatlas/beanatlas/crawl"
	"github.com/beanatlas/beanatlas/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRoaster() *beanatlas.Roaster {
	return &beanatlas.Roaster{
		ID:         "r1",
		Name:       "Test Roasters",
		WebsiteURL: "https://roaster.example",
		Approved:   true,
	}
}

// testCrawler builds a Crawler with a missing-everything coffee store and
// fast retry settings. Callers override the stages they exercise.
func testCrawler(created *[]*beanatlas.Coffee) *crawl.Crawler {
	return &crawl.Crawler{
		Roasters: &mock.RoasterService{
			MarkCrawledFn: func(ctx context.Context, id string, at time.Time) error {
				return nil
			},
		},
		Coffees:     newCoffeeStore(created),
		Logger:      discardLogger(),
		Gate:        crawl.DefaultGateConfig(),
		MaxAttempts: 1,
		BackoffStep: time.Millisecond,
	}
}

func TestCrawlRoaster_BulkPath(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://roaster.example/products/brazil-santos",
		"https://roaster.example/products/ethiopia-guji",
	}

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
			return urls, nil
		},
	}
	c.Extractor = &mock.Extractor{
		ExtractCatalogFn: func(ctx context.Context, roasterName string, us []string) ([]*beanatlas.Coffee, error) {
			assert.Equal(t, urls, us)
			return []*beanatlas.Coffee{
				fullCoffee("Brazil Santos"),
				fullCoffee("Ethiopia Guji"),
			}, nil
		},
	}

	result, err := c.CrawlRoaster(context.Background(), testRoaster())
	require.NoError(t, err)

	assert.Equal(t, 2, result.URLs)
	assert.Equal(t, 2, result.BaseProducts)
	assert.False(t, result.UsedFallback)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, created, 2)
	assert.Equal(t, "r1", created[0].RoasterID)
	assert.NotEmpty(t, created[0].ContentHash)
}

func TestCrawlRoaster_MarksCrawledOnFailure(t *testing.T) {
	t.Parallel()

	var marked bool
	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Roasters = &mock.RoasterService{
		MarkCrawledFn: func(ctx context.Context, id string, at time.Time) error {
			marked = true
			assert.Equal(t, "r1", id)
			return nil
		},
	}
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
			return nil, beanatlas.Errorf(beanatlas.EUNAVAILABLE, "site unreachable")
		},
	}

	_, err := c.CrawlRoaster(context.Background(), testRoaster())
	require.Error(t, err)
	assert.True(t, marked, "last-crawl timestamp must be recorded on failure too")
}

func TestCrawlRoaster_GateTriggersFallback(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://roaster.example/products/brazil-santos",
		"https://roaster.example/products/ethiopia-guji",
	}

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
			return urls, nil
		},
	}
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			return "rendered page text for " + url, nil
		},
	}
	c.Extractor = &mock.Extractor{
		// Bulk pass yields nothing; the gate must route to the renderer.
		ExtractCatalogFn: func(ctx context.Context, roasterName string, us []string) ([]*beanatlas.Coffee, error) {
			return nil, nil
		},
		ExtractProductFn: func(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
			coffee := fullCoffee("Coffee from " + sourceURL)
			return coffee, nil
		},
	}

	result, err := c.CrawlRoaster(context.Background(), testRoaster())
	require.NoError(t, err)

	assert.True(t, result.UsedFallback)
	require.NotNil(t, result.Fallback)
	assert.Equal(t, crawl.StateCompleted, result.Fallback.State)
	assert.Equal(t, 2, result.Fallback.Processed)
	assert.Equal(t, 2, result.Saved)

	require.Len(t, created, 2)
	assert.Equal(t, urls[0], created[0].SourceURL)
	assert.NotEmpty(t, created[0].ContentHash)
}

func TestCrawlRoaster_FallbackAbortsOnRenderFailure(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://roaster.example/products/brazil-santos",
		"https://roaster.example/products/ethiopia-guji",
		"https://roaster.example/products/kenya-nyeri",
	}

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
			return urls, nil
		},
	}
	var renders int
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			renders++
			if renders == 2 {
				return "", beanatlas.Errorf(beanatlas.EUNAVAILABLE, "bot blocked")
			}
			return "rendered page text", nil
		},
	}
	c.Extractor = &mock.Extractor{
		ExtractCatalogFn: func(ctx context.Context, roasterName string, us []string) ([]*beanatlas.Coffee, error) {
			return nil, nil
		},
		ExtractProductFn: func(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
			return fullCoffee("Coffee from " + sourceURL), nil
		},
	}

	result, err := c.CrawlRoaster(context.Background(), testRoaster())
	require.Error(t, err)
	assert.Equal(t, beanatlas.EUNAVAILABLE, beanatlas.ErrorCode(err))

	require.NotNil(t, result.Fallback)
	assert.Equal(t, crawl.StateAborted, result.Fallback.State)
	assert.Contains(t, result.Fallback.AbortReason, "render")
	assert.Equal(t, 1, result.Fallback.Processed)

	// The record staged before the abort is still flushed.
	assert.Equal(t, 1, result.Saved)
	require.Len(t, created, 1)
	assert.Equal(t, urls[0], created[0].SourceURL)

	// Fail-fast: the third URL is never rendered.
	assert.Equal(t, 2, renders)
}

func TestCrawlRoaster_FingerprintSkip(t *testing.T) {
	t.Parallel()

	var created []*beanatlas.Coffee
	var updated int
	c := testCrawler(&created)

	candidate := fullCoffee("Brazil Santos")

	c.Coffees = &mock.CoffeeService{
		CreateCoffeeFn: func(ctx context.Context, coffee *beanatlas.Coffee) error {
			created = append(created, coffee)
			return nil
		},
		FindCoffeeByNameFn: func(ctx context.Context, roasterID, name string) (*beanatlas.Coffee, error) {
			// The candidate's fingerprint is computed before the lookup, so
			// echoing it back simulates an unchanged stored record.
			return &beanatlas.Coffee{
				ID:          "c1",
				RoasterID:   roasterID,
				Name:        name,
				ContentHash: candidate.ContentHash,
			}, nil
		},
		UpdateCoffeeFn: func(ctx context.Context, id string, upd beanatlas.CoffeeUpdate) (*beanatlas.Coffee, error) {
			updated++
			return nil, nil
		},
	}
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
			return []string{"https://roaster.example/products/brazil-santos"}, nil
		},
	}
	c.Extractor = &mock.Extractor{
		ExtractCatalogFn: func(ctx context.Context, roasterName string, us []string) ([]*beanatlas.Coffee, error) {
			return []*beanatlas.Coffee{candidate}, nil
		},
	}

	result, err := c.CrawlRoaster(context.Background(), testRoaster())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Saved)
	assert.Equal(t, 0, updated)
	assert.Empty(t, created)
}

func TestCrawlRoaster_ClassifierFailureKeepsCoarseSet(t *testing.T) {
	t.Parallel()

	urls := []string{"https://roaster.example/products/brazil-santos"}

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
			return urls, nil
		},
	}
	c.Classifier = &mock.URLClassifier{
		FilterCoffeeURLsFn: func(ctx context.Context, us []string) ([]string, error) {
			return nil, beanatlas.Errorf(beanatlas.EUNAVAILABLE, "oracle overloaded")
		},
	}
	c.Extractor = &mock.Extractor{
		ExtractCatalogFn: func(ctx context.Context, roasterName string, us []string) ([]*beanatlas.Coffee, error) {
			// The coarse set must survive the classifier failure.
			assert.Equal(t, urls, us)
			return []*beanatlas.Coffee{fullCoffee("Brazil Santos")}, nil
		},
	}

	result, err := c.CrawlRoaster(context.Background(), testRoaster())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
}

func TestCrawlProduct_PlaceholderOnRenderFailure(t *testing.T) {
	t.Parallel()

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			return "", beanatlas.Errorf(beanatlas.EUNAVAILABLE, "navigation timed out")
		},
	}

	coffee, err := c.CrawlProduct(context.Background(), testRoaster(),
		"https://roaster.example/products/brazil-santos")
	require.NoError(t, err)

	assert.Equal(t, "Unknown", coffee.Name)
	assert.Equal(t, beanatlas.StatusError, coffee.Status)
	assert.Contains(t, coffee.StatusMessage, "navigation timed out")

	require.Len(t, created, 1)
	assert.Equal(t, beanatlas.StatusError, created[0].Status)
}

func TestCrawlProduct_StaticPathSkipsBrowser(t *testing.T) {
	t.Parallel()

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Fetcher = &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			return "<html><body><p>server rendered product page</p></body></html>", nil
		},
	}
	c.Content = &mock.ContentExtractor{
		ExtractFn: func(html string) (*beanatlas.ExtractResult, error) {
			return &beanatlas.ExtractResult{ContentHTML: "<p>server rendered product page</p>"}, nil
		},
	}
	c.Markdown = &mock.Converter{
		ConvertFn: func(html string) (string, error) {
			return "server rendered product page", nil
		},
	}
	c.JSDetector = func(html string) bool { return false }
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			t.Fatal("browser must not be used for a static page")
			return "", nil
		},
	}
	c.Extractor = &mock.Extractor{
		ExtractProductFn: func(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
			assert.Equal(t, "server rendered product page", pageText)
			return fullCoffee("Brazil Santos"), nil
		},
	}

	coffee, err := c.CrawlProduct(context.Background(), testRoaster(),
		"https://roaster.example/products/brazil-santos")
	require.NoError(t, err)
	assert.Equal(t, "Brazil Santos", coffee.Name)
	assert.NotEmpty(t, coffee.ContentHash)
	assert.Len(t, created, 1)
}

func TestRetryFailed(t *testing.T) {
	t.Parallel()

	var created []*beanatlas.Coffee
	var deleted []string
	c := testCrawler(&created)
	c.Coffees = &mock.CoffeeService{
		CreateCoffeeFn: func(ctx context.Context, coffee *beanatlas.Coffee) error {
			coffee.ID = "fresh"
			created = append(created, coffee)
			return nil
		},
		FindCoffeeByNameFn: func(ctx context.Context, roasterID, name string) (*beanatlas.Coffee, error) {
			return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "coffee not found")
		},
		FindCoffeesFn: func(ctx context.Context, filter beanatlas.CoffeeFilter) ([]*beanatlas.Coffee, error) {
			require.NotNil(t, filter.Status)
			assert.Equal(t, beanatlas.StatusError, *filter.Status)
			return []*beanatlas.Coffee{
				{ID: "old1", RoasterID: "r1", Name: "Unknown", Status: beanatlas.StatusError,
					SourceURL: "https://roaster.example/products/brazil-santos"},
				{ID: "old2", RoasterID: "r1", Name: "Unknown", Status: beanatlas.StatusError},
			}, nil
		},
		DeleteCoffeesFn: func(ctx context.Context, ids []string) error {
			deleted = append(deleted, ids...)
			return nil
		},
	}
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			return "rendered page text", nil
		},
	}
	c.Extractor = &mock.Extractor{
		ExtractProductFn: func(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
			return fullCoffee("Brazil Santos"), nil
		},
	}

	result, err := c.RetryFailed(context.Background(), testRoaster())
	require.NoError(t, err)

	// The record with no source URL is not retryable.
	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 1, result.Recovered)

	// The fresh record landed under a new name, so the stale placeholder
	// goes away.
	assert.Equal(t, []string{"old1"}, deleted)
}

func TestRetryFailed_RepeatedFailureKeepsOnePlaceholder(t *testing.T) {
	t.Parallel()

	const url = "https://roaster.example/products/broken"

	// In-memory store seeded with one error placeholder for a URL whose
	// render never recovers.
	store := []*beanatlas.Coffee{
		{ID: "c1", RoasterID: "r1", Name: "Unknown", Status: beanatlas.StatusError,
			StatusMessage: "render timed out", SourceURL: url},
	}
	coffees := &mock.CoffeeService{
		CreateCoffeeFn: func(ctx context.Context, coffee *beanatlas.Coffee) error {
			coffee.ID = fmt.Sprintf("c%d", len(store)+1)
			store = append(store, coffee)
			return nil
		},
		FindCoffeeByNameFn: func(ctx context.Context, roasterID, name string) (*beanatlas.Coffee, error) {
			return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "coffee not found")
		},
		FindCoffeesFn: func(ctx context.Context, filter beanatlas.CoffeeFilter) ([]*beanatlas.Coffee, error) {
			var out []*beanatlas.Coffee
			for _, c := range store {
				if filter.SourceURL != nil && c.SourceURL != *filter.SourceURL {
					continue
				}
				if filter.Status != nil && c.Status != *filter.Status {
					continue
				}
				out = append(out, c)
			}
			return out, nil
		},
		UpdateCoffeeFn: func(ctx context.Context, id string, upd beanatlas.CoffeeUpdate) (*beanatlas.Coffee, error) {
			for _, c := range store {
				if c.ID != id {
					continue
				}
				if upd.Name != nil {
					c.Name = *upd.Name
				}
				if upd.Status != nil {
					c.Status = *upd.Status
				}
				if upd.StatusMessage != nil {
					c.StatusMessage = *upd.StatusMessage
				}
				return c, nil
			}
			return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "coffee not found")
		},
		DeleteCoffeesFn: func(ctx context.Context, ids []string) error {
			t.Fatalf("no placeholder should be deleted, got %v", ids)
			return nil
		},
	}

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Coffees = coffees
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			return "", beanatlas.Errorf(beanatlas.EUNAVAILABLE, "navigation timed out")
		},
	}

	// Two retry rounds over the same dead URL must converge on the seeded
	// row, not stack a new placeholder per attempt.
	for range 2 {
		result, err := c.RetryFailed(context.Background(), testRoaster())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Attempted)
		assert.Equal(t, 0, result.Recovered)
	}

	require.Len(t, store, 1)
	assert.Equal(t, "c1", store[0].ID)
	assert.Equal(t, beanatlas.StatusError, store[0].Status)
	assert.Contains(t, store[0].StatusMessage, "navigation timed out")
}

func TestCrawlAll(t *testing.T) {
	t.Parallel()

	roasters := []*beanatlas.Roaster{
		{ID: "r1", Name: "First", WebsiteURL: "https://first.example", Approved: true},
		{ID: "r2", Name: "Second", WebsiteURL: "https://second.example", Approved: true},
	}

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.Roasters = &mock.RoasterService{
		FindRoastersFn: func(ctx context.Context, filter beanatlas.RoasterFilter) ([]*beanatlas.Roaster, error) {
			require.NotNil(t, filter.Approved)
			assert.True(t, *filter.Approved)
			return roasters, nil
		},
		MarkCrawledFn: func(ctx context.Context, id string, at time.Time) error {
			return nil
		},
	}
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
			// One roaster's discovery fails; the other still completes.
			if baseURL == "https://first.example" {
				return nil, beanatlas.Errorf(beanatlas.EUNAVAILABLE, "site unreachable")
			}
			return []string{"https://second.example/products/guji"}, nil
		},
	}
	c.Extractor = &mock.Extractor{
		ExtractCatalogFn: func(ctx context.Context, roasterName string, us []string) ([]*beanatlas.Coffee, error) {
			return []*beanatlas.Coffee{fullCoffee("Ethiopia Guji")}, nil
		},
	}

	results, err := c.CrawlAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 2)

	var saved int
	for _, r := range results {
		saved += r.Saved
	}
	assert.Equal(t, 1, saved)
}
