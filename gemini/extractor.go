// Package gemini provides Google Gemini implementations of the extraction
// oracle, the semantic URL filter and the LLM geocoding fallback.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beanatlas/beanatlas"
	"google.golang.org/genai"
)

// Models per tier. The catalog pass is the cheap bulk tier; the product
// pass backs the expensive per-item fallback.
const (
	catalogModel = "gemini-2.5-flash"
	productModel = "gemini-2.5-pro"
)

// Ensure Extractor implements beanatlas.Extractor at compile time.
var _ beanatlas.Extractor = (*Extractor)(nil)

// Extractor implements the extraction oracle using Google Gemini.
type Extractor struct {
	client *genai.Client
}

// NewExtractor creates a new Extractor.
func NewExtractor(client *genai.Client) *Extractor {
	return &Extractor{client: client}
}

// record mirrors the oracle's JSON output for one coffee.
type record struct {
	Name         string   `json:"name"`
	Origin       string   `json:"origin"`
	Region       string   `json:"region"`
	Process      string   `json:"process"`
	Producer     string   `json:"producer"`
	Variety      string   `json:"variety"`
	Altitude     string   `json:"altitude"`
	TastingNotes []string `json:"tastingNotes"`
	Price        string   `json:"price"`
	InStock      bool     `json:"inStock"`
	Description  string   `json:"description"`
	SourceURL    string   `json:"sourceUrl"`
}

func (r *record) coffee() *beanatlas.Coffee {
	return &beanatlas.Coffee{
		Name:         strings.TrimSpace(r.Name),
		Origin:       strings.TrimSpace(r.Origin),
		Region:       strings.TrimSpace(r.Region),
		Process:      strings.TrimSpace(r.Process),
		Producer:     strings.TrimSpace(r.Producer),
		Variety:      strings.TrimSpace(r.Variety),
		Altitude:     strings.TrimSpace(r.Altitude),
		TastingNotes: r.TastingNotes,
		Price:        strings.TrimSpace(r.Price),
		InStock:      r.InStock,
		Description:  strings.TrimSpace(r.Description),
		SourceURL:    strings.TrimSpace(r.SourceURL),
	}
}

// ExtractCatalog sends the full filtered URL set in a single call. The
// oracle may silently skip URLs it cannot parse.
func (e *Extractor) ExtractCatalog(ctx context.Context, roasterName string, urls []string) ([]*beanatlas.Coffee, error) {
	if roasterName == "" {
		return nil, beanatlas.Errorf(beanatlas.EINVALID, "roaster name required")
	}
	if len(urls) == 0 {
		return nil, beanatlas.Errorf(beanatlas.EINVALID, "at least one URL required")
	}

	prompt := BuildCatalogPrompt(roasterName, urls)

	result, err := e.client.Models.GenerateContent(ctx, catalogModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildCatalogConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, beanatlas.Errorf(beanatlas.EINTERNAL, "gemini returned nil result")
	}

	var records []record
	if err := json.Unmarshal([]byte(result.Text()), &records); err != nil {
		return nil, beanatlas.Errorf(beanatlas.EINTERNAL, "malformed catalog response: %v", err)
	}

	coffees := make([]*beanatlas.Coffee, 0, len(records))
	for i := range records {
		coffees = append(coffees, records[i].coffee())
	}
	return coffees, nil
}

// ExtractProduct converts rendered page text into a single record. An
// extraction with no product name is returned as nil with no error: it is a
// data-quality signal, not a transport failure.
func (e *Extractor) ExtractProduct(ctx context.Context, pageText, roasterName, sourceURL string) (*beanatlas.Coffee, error) {
	if pageText == "" {
		return nil, beanatlas.Errorf(beanatlas.EINVALID, "page text required")
	}

	prompt := BuildProductPrompt(pageText, roasterName, sourceURL)

	result, err := e.client.Models.GenerateContent(ctx, productModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildProductConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, beanatlas.Errorf(beanatlas.EINTERNAL, "gemini returned nil result")
	}

	var rec record
	if err := json.Unmarshal([]byte(result.Text()), &rec); err != nil {
		return nil, beanatlas.Errorf(beanatlas.EINTERNAL, "malformed product response: %v", err)
	}

	coffee := rec.coffee()
	if coffee.Name == "" {
		return nil, nil
	}
	if coffee.SourceURL == "" {
		coffee.SourceURL = sourceURL
	}
	return coffee, nil
}

// coffeeSchema constrains oracle output to the record shape.
func coffeeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":         {Type: genai.TypeString},
			"origin":       {Type: genai.TypeString},
			"region":       {Type: genai.TypeString},
			"process":      {Type: genai.TypeString},
			"producer":     {Type: genai.TypeString},
			"variety":      {Type: genai.TypeString},
			"altitude":     {Type: genai.TypeString},
			"tastingNotes": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"price":        {Type: genai.TypeString},
			"inStock":      {Type: genai.TypeBoolean},
			"description":  {Type: genai.TypeString},
			"sourceUrl":    {Type: genai.TypeString},
		},
	}
}

// BuildCatalogConfig returns the GenerateContentConfig for bulk extraction.
func BuildCatalogConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You extract structured specialty coffee product data from roaster websites. Visit nothing; use only what the URLs themselves reveal plus your knowledge of the roaster's catalog conventions. Skip URLs that are not coffee products. Leave unknown fields empty rather than guessing.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: coffeeSchema(),
		},
	}
}

// BuildProductConfig returns the GenerateContentConfig for per-item extraction.
func BuildProductConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You extract structured specialty coffee product data from a product page's text. Leave unknown fields empty rather than guessing. If the page is not a coffee product, return an object with an empty name.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   coffeeSchema(),
	}
}

// BuildCatalogPrompt builds the user prompt for the bulk pass.
func BuildCatalogPrompt(roasterName string, urls []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Roaster: %s\n\n<urls>\n", roasterName)
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteString("\n")
	}
	sb.WriteString("</urls>\n\nExtract one record per coffee product.")
	return sb.String()
}

// BuildProductPrompt builds the user prompt for the per-item pass.
func BuildProductPrompt(pageText, roasterName, sourceURL string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Roaster: %s\nURL: %s\n\n<page>\n%s\n</page>\n\nExtract the coffee product record.", roasterName, sourceURL, pageText)
	return sb.String()
}
