// Package goquery provides HTML heuristics built on CSS selection.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Detector classifies pages as JavaScript-rendered so callers can choose
// the browser path before wasting a static fetch on an empty shell.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// IsJavaScriptRendered reports whether the HTML looks like a client-side
// rendered shell: a known SPA mount point, a framework marker, or a body
// that is almost entirely script by weight.
func (d *Detector) IsJavaScriptRendered(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Unparseable HTML: assume the browser is needed.
		return true
	}

	// Empty SPA mount points. #root and #app with no children are the
	// classic React/Vue shells; Shopify hydrogen storefronts use #mainContent.
	for _, sel := range []string{"#root", "#app", "#__next", "#___gatsby", "#mainContent"} {
		mount := doc.Find(sel)
		if mount.Length() > 0 && strings.TrimSpace(mount.Text()) == "" {
			return true
		}
	}

	// Framework bootstrap markers that only appear on client-rendered pages.
	if doc.Find("script#__NEXT_DATA__").Length() > 0 ||
		doc.Find("[data-reactroot]").Length() > 0 ||
		doc.Find("[data-server-rendered]").Length() > 0 {
		return false // data is server-rendered and present in the HTML
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return true
	}

	visible := strings.TrimSpace(body.Clone().Find("script, style, noscript").Remove().End().Text())
	if len(visible) < 200 && body.Find("script").Length() > 0 {
		return true
	}

	return false
}
