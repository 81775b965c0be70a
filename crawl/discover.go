package crawl

import (
	"context"

	"github.com/beanatlas/beanatlas"
	"github.com/beanatlas/beanatlas/bloom"
)

// Discovery configuration.
const (
	// discoveryExpectedURLs is the expected URL count for Bloom filter sizing.
	discoveryExpectedURLs = 10000
	// discoveryFalsePositiveRate is the acceptable dedup false positive rate.
	discoveryFalsePositiveRate = 0.01
)

// discoverProductURLs finds candidate coffee URLs for a roaster: sitemap
// discovery, coarse pattern filter, cross-sitemap dedup, then a semantic
// oracle pass that drops merch and equipment pages. A classifier failure
// degrades to the coarse-filtered set rather than failing the crawl.
func (c *Crawler) discoverProductURLs(ctx context.Context, roaster *beanatlas.Roaster) ([]string, error) {
	base := roaster.SitemapURL
	if base == "" {
		base = roaster.WebsiteURL
	}

	filter := c.Filter
	if filter == nil {
		filter = beanatlas.ProductURLFilter()
	}

	urls, err := c.Sitemaps.DiscoverURLs(ctx, base, filter)
	if err != nil {
		return nil, err
	}

	// Sitemap indexes commonly repeat URLs across child sitemaps.
	seen := bloom.NewFilter(discoveryExpectedURLs, discoveryFalsePositiveRate)
	deduped := urls[:0]
	for _, u := range urls {
		if seen.Seen(u) {
			continue
		}
		deduped = append(deduped, u)
	}

	if c.Classifier == nil || len(deduped) == 0 {
		return deduped, nil
	}

	coffeeURLs, err := c.Classifier.FilterCoffeeURLs(ctx, deduped)
	if err != nil {
		c.logger().Warn("semantic URL filter failed, keeping coarse set",
			"roaster", roaster.Name, "urls", len(deduped), "err", err)
		return deduped, nil
	}

	return coffeeURLs, nil
}
