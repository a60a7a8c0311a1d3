package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrReleaseNotFound means the provider has no published rate table for the
// requested date. The resolver reacts by walking back one day at a time.
var ErrReleaseNotFound = errors.New("release not found")

// Provider fetches a full day's rate table for one base currency.
type Provider interface {
	FetchTable(ctx context.Context, currency, day string) (RateTable, error)
}

// HTTPProvider talks to a currency-api style endpoint:
//
//	GET {base}/{day}/v1/currencies/{currency}.json
//	-> {"date": "2024-01-01", "usd": {"inr": 83.12, ...}}
//
// Dates without a published release come back as 404.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) FetchTable(ctx context.Context, currency, day string) (RateTable, error) {
	url := fmt.Sprintf("%s/%s/v1/currencies/%s.json", p.baseURL, day, currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rate table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s %s: %w", currency, day, ErrReleaseNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rate response: %w", err)
	}

	// The table sits under a key named after the base currency, next to a
	// "date" field.
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode rate response: %w", err)
	}

	raw, ok := payload[currency]
	if !ok {
		return nil, fmt.Errorf("rate response has no %q table", currency)
	}

	var table RateTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decode %q table: %w", currency, err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("rate response has an empty %q table", currency)
	}
	return table, nil
}
