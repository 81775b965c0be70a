// Package htmltomarkdown renders cleaned product-page HTML as markdown
// text for the extraction oracle.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/beanatlas/beanatlas"
)

var _ beanatlas.Converter = (*Converter)(nil)

// Converter turns content HTML into markdown. The table plugin matters for
// this domain: roasters tend to publish process, variety, and altitude as a
// spec table, and the oracle reads those fields out of the markdown rows.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with the base, commonmark, and table
// plugins enabled.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert renders HTML as markdown text. Blank input is rejected rather
// than passed through, because downstream stages treat empty page text as a
// render failure.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", beanatlas.Errorf(beanatlas.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return collapseBlankRuns(md), nil
}

// collapseBlankRuns squeezes runs of blank lines down to one separator and
// trims the edges. Div-heavy shop templates convert with large vertical
// gaps that waste oracle context without carrying information.
func collapseBlankRuns(md string) string {
	lines := strings.Split(md, "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			line = ""
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
