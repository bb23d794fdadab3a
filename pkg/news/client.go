package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps the Finnhub-style news REST endpoints.
type Client struct {
	apiKey         string
	companyNewsURL string
	cryptoNewsURL  string
	httpClient     *http.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a news API client from configuration.
func NewClient(cfg *Config, opts ...Option) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client := &Client{
		apiKey:         cfg.APIKey,
		companyNewsURL: cfg.CompanyNewsURL,
		cryptoNewsURL:  cfg.CryptoNewsURL,
		httpClient:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// CompanyNews returns articles for a symbol over the [from, to] UTC date
// range, in provider order.
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]Article, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("to", to.UTC().Format("2006-01-02"))
	return c.get(ctx, c.companyNewsURL, params)
}

// CategoryNews returns the provider's category feed (e.g. "crypto"), with no
// date range.
func (c *Client) CategoryNews(ctx context.Context, category string) ([]Article, error) {
	params := url.Values{}
	params.Set("category", category)
	return c.get(ctx, c.cryptoNewsURL, params)
}

func (c *Client) get(ctx context.Context, base string, params url.Values) ([]Article, error) {
	params.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("news: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("news: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("news: http status %d: %s", resp.StatusCode, string(body))
	}

	var articles []Article
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, fmt.Errorf("news: decode response: %w", err)
	}
	return articles, nil
}
