// Package marketdata implements the client for the external market data
// provider. The provider is an opaque collaborator: per-ticker lookups can
// fail individually and failures are collected, never fatal to a batch.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlindq/cpmd/internal/domain/finance"
	"github.com/mlindq/cpmd/pkg/metrics"
)

// defaultTimeout bounds a single provider request.
const defaultTimeout = 10 * time.Second

// Periods recognized by the history endpoint.
var validPeriods = map[string]bool{
	"1d":  true,
	"7d":  true,
	"1mo": true,
	"3mo": true,
	"1y":  true,
	"5y":  true,
}

// ValidPeriod reports whether period is recognized.
func ValidPeriod(period string) bool { return validPeriods[period] }

// Provider abstracts the market data source for the service layer.
type Provider interface {
	// FetchBatch fetches company profiles sequentially, one ticker at a
	// time. Per-ticker failures are collected into the batch report.
	FetchBatch(ctx context.Context, tickers []string) Batch

	// History returns the closing price history of one ticker over a
	// recognized period.
	History(ctx context.Context, ticker, period string) ([]finance.PricePoint, error)
}

// TickerError is a per-ticker soft failure in a batch report.
type TickerError struct {
	Ticker  string `json:"ticker"`
	Message string `json:"message"`
}

// Batch is the outcome of one fetch run. Records replace the previous cache
// wholesale.
type Batch struct {
	ID        string           `json:"batch_id"`
	FetchedAt time.Time        `json:"fetched_at"`
	Records   []finance.Record `json:"records"`
	Errors    []TickerError    `json:"errors"`
}

// Client talks HTTP+JSON to the provider gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a provider client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// profileResponse mirrors the provider's company profile payload. Revenue
// arrives in absolute USD.
type profileResponse struct {
	Name      string  `json:"name"`
	Revenue   float64 `json:"total_revenue"`
	Employees int     `json:"employees"`
	PERatio   float64 `json:"pe_ratio"`
	Country   string  `json:"country"`
}

// historyResponse mirrors the provider's price history payload.
type historyResponse struct {
	Points []finance.PricePoint `json:"points"`
}

// Profile fetches one company profile and converts it to a finance.Record.
func (c *Client) Profile(ctx context.Context, ticker string) (finance.Record, error) {
	var payload profileResponse
	url := fmt.Sprintf("%s/v1/profile/%s", c.baseURL, ticker)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return finance.Record{}, err
	}
	// A body without a company name is treated as no data, matching the
	// provider's behavior of returning sparse objects for unknown tickers.
	if payload.Name == "" {
		return finance.Record{}, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	country := payload.Country
	if country == "" {
		country = "Unknown"
	}

	return finance.Record{
		Ticker:          ticker,
		Company:         payload.Name,
		RevenueBillions: toBillions(payload.Revenue),
		Employees:       max(payload.Employees, 0),
		PERatio:         roundPositive(payload.PERatio),
		Country:         country,
		CountryCode:     finance.CountryCode(country),
	}, nil
}

// FetchBatch implements Provider. Tickers are fetched sequentially; one
// ticker's failure does not abort the batch.
func (c *Client) FetchBatch(ctx context.Context, tickers []string) Batch {
	batch := Batch{
		ID:        uuid.NewString(),
		FetchedAt: time.Now().UTC(),
		Records:   []finance.Record{},
		Errors:    []TickerError{},
	}

	for _, ticker := range tickers {
		start := time.Now()
		record, err := c.Profile(ctx, ticker)
		metrics.RecordMarketFetchDuration(float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordMarketFetchFailure()
			batch.Errors = append(batch.Errors, TickerError{Ticker: ticker, Message: err.Error()})
			continue
		}
		metrics.RecordMarketFetchSuccess()
		batch.Records = append(batch.Records, record)
	}
	return batch
}

// History implements Provider.
func (c *Client) History(ctx context.Context, ticker, period string) ([]finance.PricePoint, error) {
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPeriod, period)
	}
	var payload historyResponse
	url := fmt.Sprintf("%s/v1/history/%s?range=%s", c.baseURL, ticker, period)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if len(payload.Points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return payload.Points, nil
}

// getJSON performs one GET request and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrTickerNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: unexpected status %s", ErrProvider, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode body: %w", ErrProvider, err)
	}
	return nil
}

// toBillions converts absolute USD revenue to billions, rounded to two
// decimals; non-positive input collapses to 0.
func toBillions(revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	out, _ := decimal.NewFromFloat(revenue).
		Div(decimal.NewFromInt(1_000_000_000)).
		Round(2).
		Float64()
	return out
}

// roundPositive keeps positive ratios at two decimals and collapses the
// provider's missing-value sentinels to 0.
func roundPositive(v float64) float64 {
	if v <= 0 {
		return 0
	}
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
