// Package fx provides the outbound exchange-rate client.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Client fetches FX rates from a frankfurter-style API
// (GET {base}/latest?base=X&symbols=Y).
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a rate client from FX config.
func NewClient(cfg config.FXConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type latestResponse struct {
	Base  string                 `json:"base"`
	Date  string                 `json:"date"`
	Rates map[string]json.Number `json:"rates"`
}

// GetRate returns how many units of to one unit of from buys. Same-currency
// pairs short-circuit to 1 without a network call.
func (c *Client) GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	u := fmt.Sprintf("%s/latest?base=%s&symbols=%s",
		c.baseURL, url.QueryEscape(string(from)), url.QueryEscape(string(to)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("building rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("fetching rate %s/%s: %w", from, to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("rate provider returned status %d for %s/%s", resp.StatusCode, from, to)
	}

	var body latestResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decoding rate response: %w", err)
	}

	raw, ok := body.Rates[string(to)]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("rate provider response missing %s rate", to)
	}

	// json.Number keeps the provider's decimal string intact
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing rate %q: %w", raw.String(), err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("rate provider returned non-positive rate %s for %s/%s", rate, from, to)
	}
	return rate, nil
}
