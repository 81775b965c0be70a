// Package bloom provides probabilistic URL deduplication for sitemap
// discovery.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter deduplicates discovered URLs. Sitemap indexes routinely repeat
// URLs across child sitemaps; a Bloom filter keeps the memory cost flat
// for large storefronts. False positives drop a URL that was never seen,
// false negatives do not occur.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen records the URL and reports whether it was already present.
func (f *Filter) Seen(url string) bool {
	return f.f.TestOrAddString(url)
}

// Add records a URL without testing membership.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test reports whether the URL might have been recorded.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of recorded URLs.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
