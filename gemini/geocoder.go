package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/beanatlas/beanatlas"
	"google.golang.org/genai"
)

const geocoderModel = "gemini-2.5-flash"

// Ensure Geocoder implements beanatlas.CoordinateGuesser at compile time.
var _ beanatlas.CoordinateGuesser = (*Geocoder)(nil)

// Geocoder is the LLM coordinate fallback: given a natural-language address
// it returns a strict lat/lon pair. Callers validate the bounds.
type Geocoder struct {
	client *genai.Client
}

// NewGeocoder creates a new Geocoder.
func NewGeocoder(client *genai.Client) *Geocoder {
	return &Geocoder{client: client}
}

// GuessCoordinates returns the best-estimate coordinates for the address.
func (g *Geocoder) GuessCoordinates(ctx context.Context, address string) (float64, float64, error) {
	if address == "" {
		return 0, 0, beanatlas.Errorf(beanatlas.EINVALID, "address required")
	}

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "Return the latitude and longitude of the given place as JSON. Use the centroid of the named area.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"lat": {Type: genai.TypeNumber},
				"lon": {Type: genai.TypeNumber},
			},
			Required: []string{"lat", "lon"},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, geocoderModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: fmt.Sprintf("Place: %s", address)}},
		}},
		config,
	)
	if err != nil {
		return 0, 0, err
	}
	if result == nil {
		return 0, 0, beanatlas.Errorf(beanatlas.EINTERNAL, "gemini returned nil result")
	}

	var pair struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.Unmarshal([]byte(result.Text()), &pair); err != nil {
		return 0, 0, beanatlas.Errorf(beanatlas.EINTERNAL, "malformed coordinate response: %v", err)
	}

	return pair.Lat, pair.Lon, nil
}
