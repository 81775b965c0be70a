package mock

import (
	"context"

	"github.com/beanatlas/beanatlas"
)

var _ beanatlas.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of beanatlas.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *beanatlas.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ beanatlas.URLClassifier = (*URLClassifier)(nil)

// URLClassifier is a mock implementation of beanatlas.URLClassifier.
type URLClassifier struct {
	FilterCoffeeURLsFn func(ctx context.Context, urls []string) ([]string, error)
}

func (c *URLClassifier) FilterCoffeeURLs(ctx context.Context, urls []string) ([]string, error) {
	return c.FilterCoffeeURLsFn(ctx, urls)
}

var _ beanatlas.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of beanatlas.Extractor.
type Extractor struct {
	ExtractCatalogFn func(ctx context.Context, roasterName string, urls []string) ([]*beanatlas.Coffee, error)
	ExtractProductFn func(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error)
}

func (e *Extractor) ExtractCatalog(ctx context.Context, roasterName string, urls []string) ([]*beanatlas.Coffee, error) {
	return e.ExtractCatalogFn(ctx, roasterName, urls)
}

func (e *Extractor) ExtractProduct(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
	return e.ExtractProductFn(ctx, pageText, roasterName, sourceURL)
}

var _ beanatlas.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of beanatlas.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

var _ beanatlas.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of beanatlas.Renderer.
type Renderer struct {
	RenderTextFn func(ctx context.Context, url string) (string, error)
	CloseFn      func() error
}

func (r *Renderer) RenderText(ctx context.Context, url string) (string, error) {
	return r.RenderTextFn(ctx, url)
}

func (r *Renderer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}

var _ beanatlas.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of beanatlas.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*beanatlas.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*beanatlas.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ beanatlas.Converter = (*Converter)(nil)

// Converter is a mock implementation of beanatlas.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
