package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/beanatlas/beanatlas"
	"google.golang.org/genai"
)

const urlFilterModel = "gemini-2.5-flash"

// Ensure URLClassifier implements beanatlas.URLClassifier at compile time.
var _ beanatlas.URLClassifier = (*URLClassifier)(nil)

// URLClassifier is the semantic tier of URL filtering: it drops merch,
// equipment, gift-card and subscription URLs that slip past the coarse
// pattern filter.
type URLClassifier struct {
	client *genai.Client
}

// NewURLClassifier creates a new URLClassifier.
func NewURLClassifier(client *genai.Client) *URLClassifier {
	return &URLClassifier{client: client}
}

// FilterCoffeeURLs returns the subset of URLs that are coffee products.
func (c *URLClassifier) FilterCoffeeURLs(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "Given product URLs from a coffee roaster's shop, return only the URLs that point to coffee beans for sale. Drop merchandise, brewing equipment, gift cards, subscriptions and bundles.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	}

	var sb strings.Builder
	sb.WriteString("<urls>\n")
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteString("\n")
	}
	sb.WriteString("</urls>")

	result, err := c.client.Models.GenerateContent(ctx, urlFilterModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: sb.String()}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, beanatlas.Errorf(beanatlas.EINTERNAL, "gemini returned nil result")
	}

	var kept []string
	if err := json.Unmarshal([]byte(result.Text()), &kept); err != nil {
		return nil, beanatlas.Errorf(beanatlas.EINTERNAL, "malformed filter response: %v", err)
	}

	// Only trust URLs that were actually in the input.
	allowed := make(map[string]bool, len(urls))
	for _, u := range urls {
		allowed[u] = true
	}
	filtered := kept[:0]
	for _, u := range kept {
		if allowed[u] {
			filtered = append(filtered, u)
		}
	}

	return filtered, nil
}
