// Package rod provides a browser-backed implementation of the render
// service using Chrome automation.
package rod

import (
	"context"
	"fmt"
	"strings"

	"github.com/beanatlas/beanatlas"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Renderer implements beanatlas.Renderer at compile time.
var _ beanatlas.Renderer = (*Renderer)(nil)

// Renderer turns URLs into extracted visible text using a headless Chrome
// browser, for pages whose content only exists after JavaScript runs.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	browser *rod.Browser
	content beanatlas.ContentExtractor
	convert beanatlas.Converter
}

// NewRenderer creates a Renderer that launches a headless Chrome browser.
// Rendered HTML is cleaned by the content extractor and converted to
// markdown text for the extraction oracle. Close must be called when the
// Renderer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewRenderer(content beanatlas.ContentExtractor, convert beanatlas.Converter) (*Renderer, error) {
	// Launch browser using rod's launcher (finds or downloads Chrome)
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Renderer{browser: browser, content: content, convert: convert}, nil
}

// RenderText navigates to the URL, waits for JavaScript to render, and
// returns the page's visible text with boilerplate removed.
func (r *Renderer) RenderText(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	extracted, err := r.content.Extract(html)
	if err != nil {
		return "", err
	}
	if extracted.ContentHTML == "" {
		return "", nil
	}

	text, err := r.convert.Convert(extracted.ContentHTML)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	return r.browser.Close()
}
