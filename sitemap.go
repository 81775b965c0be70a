package beanatlas

import (
	"context"
	"regexp"
)

// SitemapService discovers candidate product URLs from roaster sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// The filter can be used to include/exclude URLs by pattern.
	// If filter is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs. It is the
// coarse filter applied before the semantic classifier pass.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// ProductURLFilter returns the default coarse filter for roaster catalogs:
// keep only /products/ pages.
func ProductURLFilter() *URLFilter {
	return &URLFilter{
		Include: []*regexp.Regexp{regexp.MustCompile(`/products/`)},
	}
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	// If include patterns exist, URL must match at least one
	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Check exclude patterns
	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// URLClassifier narrows coarse-filtered URLs to actual coffee products,
// dropping merch, equipment and subscription pages. Implementations are
// oracle-backed and may fail; callers should degrade to the coarse set.
type URLClassifier interface {
	FilterCoffeeURLs(ctx context.Context, urls []string) ([]string, error)
}
