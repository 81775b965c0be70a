package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/beanatlas/beanatlas"
)

// DefaultNominatimBaseURL is the public Nominatim endpoint. Its usage
// policy caps clients at one request per second; the geocode resolver
// enforces that limit globally.
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// nominatimUserAgent identifies us per the Nominatim usage policy.
const nominatimUserAgent = "beanatlas/1.0"

// Ensure NominatimClient implements beanatlas.GeocodePrimary.
var _ beanatlas.GeocodePrimary = (*NominatimClient)(nil)

// NominatimClient resolves free-text location queries against the
// OpenStreetMap Nominatim search API.
type NominatimClient struct {
	client  *http.Client
	baseURL string
}

// NominatimOption configures a NominatimClient.
type NominatimOption func(*NominatimClient)

// WithNominatimBaseURL overrides the API endpoint, mainly for tests and
// self-hosted instances.
func WithNominatimBaseURL(baseURL string) NominatimOption {
	return func(c *NominatimClient) {
		c.baseURL = baseURL
	}
}

// NewNominatimClient creates a new NominatimClient. If client is nil,
// a client with DefaultFetchTimeout is used.
func NewNominatimClient(client *http.Client, opts ...NominatimOption) *NominatimClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	c := &NominatimClient{
		client:  client,
		baseURL: DefaultNominatimBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// nominatimResult mirrors the fields of a /search response entry we use.
// Nominatim returns coordinates as strings.
type nominatimResult struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	BoundingBox []string `json:"boundingbox"`
}

// Geocode looks up the best match for a free-text query. countryCode, when
// non-empty, restricts results to that ISO 3166-1 alpha-2 country.
// Returns (nil, nil) when Nominatim finds nothing.
func (c *NominatimClient) Geocode(ctx context.Context, query, countryCode string) (*beanatlas.Geocode, error) {
	if query == "" {
		return nil, beanatlas.Errorf(beanatlas.EINVALID, "empty geocode query")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	if countryCode != "" {
		params.Set("countrycodes", countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, beanatlas.Errorf(beanatlas.ERATELIMITED, "nominatim rate limit exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, beanatlas.Errorf(beanatlas.EUNAVAILABLE, "nominatim returned HTTP %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	best := results[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", best.Lat, err)
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", best.Lon, err)
	}

	geo := &beanatlas.Geocode{
		Latitude:  lat,
		Longitude: lon,
	}
	if bb := parseBoundingBox(best.BoundingBox); bb != nil {
		geo.BoundingBox = bb
	}

	return geo, nil
}

// parseBoundingBox converts Nominatim's string bounding box to floats.
// Returns nil if any component is missing or malformed.
func parseBoundingBox(box []string) []float64 {
	if len(box) != 4 {
		return nil
	}
	out := make([]float64, 4)
	for i, s := range box {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		out[i] = v
	}
	return out
}
