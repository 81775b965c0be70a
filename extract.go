package beanatlas

import "context"

// Extractor converts catalog pages into structured coffee records. It is the
// extraction oracle behind both pipeline tiers: a cheap bulk pass over the
// whole URL set, and a per-item pass over rendered page text used by the
// fallback stage. Which tier runs is decided by the quality gate, not by
// implementations.
type Extractor interface {
	// ExtractCatalog sends the full filtered URL set for a roaster in a
	// single call and returns zero or more records. The oracle may silently
	// skip URLs it cannot parse; missing fields are left blank. No retry at
	// this layer.
	ExtractCatalog(ctx context.Context, roasterName string, urls []string) ([]*Coffee, error)

	// ExtractProduct converts rendered page text plus roaster/URL context
	// into a single record. An empty or nameless result is returned as nil
	// with no error so callers can treat it as a data-quality signal.
	ExtractProduct(ctx context.Context, pageText, roasterName, sourceURL string) (*Coffee, error)
}
