package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultListURL     = "https://api.coingecko.com/api/v3/coins/list"
	defaultPriceURL    = "https://api.coingecko.com/api/v3/simple/price"
	defaultHTTPTimeout = 10 * time.Second
)

var (
	// ErrCoinNotFound indicates the listing has no entry matching the query.
	ErrCoinNotFound = errors.New("coingecko: coin not found")
	// ErrNoQuote indicates the provider has no USD quote for the id.
	ErrNoQuote = errors.New("coingecko: no quote data")
)

// Coin is one entry of the provider's full coin listing.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Client wraps the CoinGecko metadata and spot-price endpoints. The full
// coin listing is fetched lazily once per client and reused for subsequent
// lookups; a failed fetch leaves the cache empty so the next lookup retries.
type Client struct {
	listURL    string
	priceURL   string
	httpClient *http.Client

	mu     sync.Mutex
	coins  []Coin
	loaded bool
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

// WithListURL overrides the coin listing endpoint.
func WithListURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.listURL = url
		}
	}
}

// WithPriceURL overrides the spot price endpoint.
func WithPriceURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.priceURL = url
		}
	}
}

// WithTimeout overrides the default HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient constructs a CoinGecko API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		listURL:    defaultListURL,
		priceURL:   defaultPriceURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ResolveCoin maps a user-supplied name or symbol to the provider's listing
// entry. The match is a case-insensitive exact comparison against each
// entry's id, symbol and name, in listing order; the first matching entry
// wins.
func (c *Client) ResolveCoin(ctx context.Context, query string) (Coin, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Coin{}, ErrCoinNotFound
	}

	coins, err := c.coinList(ctx)
	if err != nil {
		return Coin{}, err
	}

	for _, coin := range coins {
		if strings.ToLower(coin.ID) == query ||
			strings.ToLower(coin.Symbol) == query ||
			strings.ToLower(coin.Name) == query {
			return coin, nil
		}
	}
	return Coin{}, ErrCoinNotFound
}

// ResolveID is ResolveCoin reduced to the canonical id.
func (c *Client) ResolveID(ctx context.Context, query string) (string, error) {
	coin, err := c.ResolveCoin(ctx, query)
	if err != nil {
		return "", err
	}
	return coin.ID, nil
}

// SpotPrice returns the current USD price for a resolved coin id.
func (c *Client) SpotPrice(ctx context.Context, id string) (float64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, fmt.Errorf("coingecko: empty id: %w", ErrNoQuote)
	}

	params := url.Values{}
	params.Set("ids", id)
	params.Set("vs_currencies", "usd")

	var quotes map[string]map[string]float64
	if err := c.getJSON(ctx, c.priceURL+"?"+params.Encode(), &quotes); err != nil {
		return 0, err
	}

	usd, ok := quotes[id]["usd"]
	if !ok {
		return 0, fmt.Errorf("coingecko: no usd quote for %s: %w", id, ErrNoQuote)
	}
	return usd, nil
}

// coinList returns the cached listing, fetching it on first use.
func (c *Client) coinList(ctx context.Context) ([]Coin, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.coins, nil
	}

	var coins []Coin
	if err := c.getJSON(ctx, c.listURL, &coins); err != nil {
		// Cache stays empty; the next call retries the fetch.
		return nil, fmt.Errorf("coingecko: fetch coin list: %w", err)
	}
	c.coins = coins
	c.loaded = true
	return c.coins, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
