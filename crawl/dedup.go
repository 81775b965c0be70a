package crawl

import (
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Suffix patterns stripped from product slugs to collapse roast variants
// onto one base identity. Order matters: later patterns assume earlier
// suffixes are already removed.
var (
	// Roast levels followed by "-roast" can appear mid-slug; bare roast
	// levels only count when terminal, so "espresso" never eats into
	// "espresso-grind".
	roastedPattern   = regexp.MustCompile(`-(light|medium-dark|medium|dark|omni|espresso)-roast(-|$)`)
	bareRoastPattern = regexp.MustCompile(`-(light|medium-dark|medium|dark|omni|espresso)$`)
	grindPattern     = regexp.MustCompile(`-(whole-bean|ground|filter|espresso-grind)(-|$)`)
	packPattern      = regexp.MustCompile(`-(250g|500g|1kg|2kg|5kg)(-|$)`)
	beansPattern     = regexp.MustCompile(`-(coffee-)?beans?$`)
)

// BaseProductKey canonicalizes a product URL to its base-product identity,
// independent of roast level, grind and pack size. Five roast variants of
// one coffee share a single key.
func BaseProductKey(rawURL string) string {
	slug := rawURL

	// Keep only the slug after the /products/ path segment.
	if idx := strings.LastIndex(slug, "/products/"); idx != -1 {
		slug = slug[idx+len("/products/"):]
	}

	// Query strings never contribute to the base identity.
	if idx := strings.Index(slug, "?"); idx != -1 {
		slug = slug[:idx]
	}
	slug = strings.TrimSuffix(slug, "/")

	slug = roastedPattern.ReplaceAllString(slug, "$2")
	slug = bareRoastPattern.ReplaceAllString(slug, "")
	slug = grindPattern.ReplaceAllString(slug, "$2")
	slug = packPattern.ReplaceAllString(slug, "$2")
	slug = beansPattern.ReplaceAllString(slug, "")

	return strings.Trim(slug, "-")
}

// UniqueBaseProducts counts distinct base-product identities in a URL list.
// It guards the extraction-rate metric against treating five roast variants
// of one product as five missed extractions.
func UniqueBaseProducts(urls []string) int {
	seen := make(map[uint64]struct{}, len(urls))
	for _, u := range urls {
		key := BaseProductKey(u)
		if key == "" {
			continue
		}
		seen[xxhash.Sum64String(key)] = struct{}{}
	}
	return len(seen)
}
