package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultEndpoint is the public exchange-rate API consumed by the palette
const DefaultEndpoint = "https://open.er-api.com/v6/latest"

// HTTPProvider fetches exchange rates from an open.er-api.com compatible
// endpoint.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
}

// NewHTTPProvider creates a provider against the default endpoint
func NewHTTPProvider() *HTTPProvider {
	return &HTTPProvider{
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewHTTPProviderWithEndpoint creates a provider against a custom endpoint,
// used by tests and self-hosted mirrors.
func NewHTTPProviderWithEndpoint(endpoint string) *HTTPProvider {
	p := NewHTTPProvider()
	p.endpoint = endpoint
	return p
}

// Fetch retrieves the latest rates relative to base
func (p *HTTPProvider) Fetch(ctx context.Context, base string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s", p.endpoint, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rates: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates: unexpected status %s", resp.Status)
	}

	// Only the result flag and the rate map are consumed; the provider's
	// other fields are ignored.
	var body struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("rates: decode response: %w", err)
	}

	if body.Result != "success" {
		return nil, fmt.Errorf("rates: provider returned result %q", body.Result)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rates: provider returned empty rate table")
	}

	return body.Rates, nil
}
