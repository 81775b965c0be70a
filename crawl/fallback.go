package crawl

import (
	"context"
	"fmt"

	"github.com/beanatlas/beanatlas"
)

// RunState is the fallback stage's lifecycle state.
type RunState int

const (
	// StateRunning means URLs are still being processed.
	StateRunning RunState = iota

	// StateCompleted means every URL was rendered and extracted.
	StateCompleted

	// StateAborted means a render or extraction failure stopped the run.
	StateAborted
)

// String returns a human-readable state name.
func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// FallbackResult reports how a fallback run ended.
type FallbackResult struct {
	State       RunState
	AbortReason string
	Processed   int
}

// Sink receives each successfully extracted record as it completes.
type Sink func(ctx context.Context, coffee *beanatlas.Coffee) error

// fallbackRun is the expensive per-item tier: render each URL to visible
// text, then extract one record from it. URLs are processed strictly
// sequentially and the run is fail-fast: a render or extraction failure at
// this tier usually means a site-wide problem (bot blocking, layout change)
// that would recur on every remaining URL, so the run aborts on the first
// invalid result instead of skipping and burning spend.
func (c *Crawler) fallbackRun(ctx context.Context, roaster *beanatlas.Roaster, urls []string, sink Sink) (*FallbackResult, error) {
	result := &FallbackResult{State: StateRunning}

	abort := func(format string, args ...any) (*FallbackResult, error) {
		result.State = StateAborted
		result.AbortReason = fmt.Sprintf(format, args...)
		return result, beanatlas.Errorf(beanatlas.EUNAVAILABLE,
			"fallback aborted for %s: %s", roaster.Name, result.AbortReason)
	}

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return abort("context canceled: %v", err)
		}

		text, err := c.Renderer.RenderText(ctx, url)
		if err != nil {
			return abort("render %s: %v", url, err)
		}
		if text == "" {
			return abort("render %s returned no visible text", url)
		}

		coffee, err := c.extractProductWithRetry(ctx, text, roaster, url)
		if err != nil {
			return abort("extract %s: %v", url, err)
		}
		if coffee == nil || coffee.Name == "" {
			return abort("extract %s returned no usable record", url)
		}

		coffee.RoasterID = roaster.ID
		coffee.SourceURL = url
		coffee.ContentHash = beanatlas.Fingerprint(text)

		if err := sink(ctx, coffee); err != nil {
			return abort("stage %s: %v", url, err)
		}
		result.Processed++
	}

	result.State = StateCompleted
	return result, nil
}
