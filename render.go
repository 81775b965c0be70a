package beanatlas

import "context"

// Fetcher retrieves raw HTML over plain HTTP, without executing scripts.
// Used to probe pages before deciding whether browser rendering is needed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (html string, err error)
}

// Renderer turns a URL into extracted visible text, executing client-side
// behavior in a real browser when the page requires it.
type Renderer interface {
	// RenderText navigates to the URL, waits for JavaScript to render, and
	// returns the page's visible text with boilerplate removed. An empty
	// result indicates the page could not be rendered.
	RenderText(ctx context.Context, url string) (string, error)

	// Close releases browser resources.
	// Must be called when the Renderer is no longer needed.
	Close() error
}
