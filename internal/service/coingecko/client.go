package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MarketScan/internal/domain/models"
	pkghttp "MarketScan/pkg/http"
)

// Client fetches market rows from the CoinGecko /coins/markets endpoint.
type Client struct {
	http      *pkghttp.Client
	baseURL   string
	userAgent string
}

// Option configures Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a CoinGecko market source.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:    pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Markets returns up to limit rows ordered by market cap, with 24h/7d/30d
// percentage changes included.
func (c *Client) Markets(ctx context.Context, vs string, limit int) ([]models.MarketRecord, error) {
	headers := map[string]string{"Accept": "application/json"}
	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}

	var records []models.MarketRecord
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/coins/markets",
		QueryParams: map[string][]string{
			"vs_currency":             {vs},
			"order":                   {"market_cap_desc"},
			"per_page":                {strconv.Itoa(limit)},
			"page":                    {"1"},
			"sparkline":               {"false"},
			"price_change_percentage": {"24h,7d,30d"},
		},
		Headers: headers,
	}, &records)
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	if len(records) == 0 {
		return nil, pkghttp.InvalidResponseError("provider returned an empty market list")
	}
	for _, r := range records {
		if r.Symbol == "" {
			return nil, pkghttp.InvalidResponseError("provider returned a row without a symbol")
		}
	}

	return records, nil
}
