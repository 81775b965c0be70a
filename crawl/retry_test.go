package crawl_test

import (
	"context"
	"testing"

	"github.com/beanatlas/beanatlas"
	"github.com/beanatlas/beanatlas/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlRoaster_BulkRetryExhaustionFeedsGate(t *testing.T) {
	t.Parallel()

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.MaxAttempts = 2
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
			return []string{"https://roaster.example/products/brazil-santos"}, nil
		},
	}
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			return "rendered page text", nil
		},
	}

	var catalogCalls int
	c.Extractor = &mock.Extractor{
		ExtractCatalogFn: func(ctx context.Context, roasterName string, us []string) ([]*beanatlas.Coffee, error) {
			catalogCalls++
			return nil, beanatlas.Errorf(beanatlas.EUNAVAILABLE, "oracle overloaded")
		},
		ExtractProductFn: func(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
			return fullCoffee("Brazil Santos"), nil
		},
	}

	result, err := c.CrawlRoaster(context.Background(), testRoaster())
	require.NoError(t, err)

	// Exhausted bulk retries degrade to a zero-yield run, which the gate
	// routes to the fallback tier rather than aborting the crawl.
	assert.Equal(t, 2, catalogCalls)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, 1, result.Saved)
}

func TestCrawlProduct_TransientExtractionFailureRetried(t *testing.T) {
	t.Parallel()

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.MaxAttempts = 3
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			return "rendered page text", nil
		},
	}

	var attempts int
	c.Extractor = &mock.Extractor{
		ExtractProductFn: func(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
			attempts++
			if attempts < 3 {
				return nil, beanatlas.Errorf(beanatlas.EUNAVAILABLE, "oracle overloaded")
			}
			return fullCoffee("Brazil Santos"), nil
		},
	}

	coffee, err := c.CrawlProduct(context.Background(), testRoaster(),
		"https://roaster.example/products/brazil-santos")
	require.NoError(t, err)

	assert.Equal(t, 3, attempts)
	assert.Equal(t, "Brazil Santos", coffee.Name)
	assert.NotEqual(t, beanatlas.StatusError, coffee.Status)
}

func TestCrawlProduct_ExhaustedRetriesPersistPlaceholder(t *testing.T) {
	t.Parallel()

	var created []*beanatlas.Coffee
	c := testCrawler(&created)
	c.MaxAttempts = 2
	c.Renderer = &mock.Renderer{
		RenderTextFn: func(ctx context.Context, url string) (string, error) {
			return "rendered page text", nil
		},
	}

	var attempts int
	c.Extractor = &mock.Extractor{
		ExtractProductFn: func(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
			attempts++
			return nil, beanatlas.Errorf(beanatlas.EUNAVAILABLE, "oracle overloaded")
		},
	}

	coffee, err := c.CrawlProduct(context.Background(), testRoaster(),
		"https://roaster.example/products/brazil-santos")
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	assert.Equal(t, "Unknown", coffee.Name)
	assert.Equal(t, beanatlas.StatusError, coffee.Status)
	assert.Contains(t, coffee.StatusMessage, "oracle overloaded")

	require.Len(t, created, 1)
	assert.Equal(t, beanatlas.StatusError, created[0].Status)
}
