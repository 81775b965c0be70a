package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/beanatlas/beanatlas"
)

// Ensure GraphSyncer implements beanatlas.GraphSyncer.
var _ beanatlas.GraphSyncer = (*GraphSyncer)(nil)

// GraphSyncer pushes persisted coffees to an external knowledge-graph
// service over HTTP. Sync failures are reported but never block the
// crawl pipeline; the chunked writer logs and continues.
type GraphSyncer struct {
	client   *http.Client
	endpoint string
}

// NewGraphSyncer creates a GraphSyncer posting to the given endpoint.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewGraphSyncer(client *http.Client, endpoint string) *GraphSyncer {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &GraphSyncer{client: client, endpoint: endpoint}
}

// SyncCoffee posts one coffee record as JSON.
func (g *GraphSyncer) SyncCoffee(ctx context.Context, coffee *beanatlas.Coffee) error {
	payload, err := json.Marshal(coffee)
	if err != nil {
		return fmt.Errorf("encoding coffee: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return beanatlas.Errorf(beanatlas.EUNAVAILABLE, "graph sync returned HTTP %d", resp.StatusCode)
	}

	return nil
}
