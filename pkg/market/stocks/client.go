package stocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://query1.finance.yahoo.com"
	defaultHTTPTimeout = 10 * time.Second
)

// ErrNoQuote indicates the provider responded without a usable price series.
var ErrNoQuote = errors.New("stocks: no quote data")

// Client wraps a Yahoo-style chart endpoint for equity metadata and the
// most recent daily close.
type Client struct {
	baseURL    string
	httpClient *http.Client
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

// WithBaseURL overrides the default endpoint URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
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

// NewClient constructs a stock data client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				ShortName string `json:"shortName"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ShortName returns the provider's short display name for the symbol.
func (c *Client) ShortName(ctx context.Context, symbol string) (string, error) {
	chart, err := c.fetchChart(ctx, symbol)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(chart.Chart.Result[0].Meta.ShortName)
	if name == "" {
		return "", fmt.Errorf("stocks: no short name for %s: %w", symbol, ErrNoQuote)
	}
	return name, nil
}

// DailyClose returns the most recent close of a one-day daily series.
func (c *Client) DailyClose(ctx context.Context, symbol string) (float64, error) {
	chart, err := c.fetchChart(ctx, symbol)
	if err != nil {
		return 0, err
	}

	quotes := chart.Chart.Result[0].Indicators.Quote
	if len(quotes) == 0 {
		return 0, fmt.Errorf("stocks: empty series for %s: %w", symbol, ErrNoQuote)
	}
	// Last non-null close wins; the provider pads open sessions with nulls.
	closes := quotes[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil {
			return *closes[i], nil
		}
	}
	return 0, fmt.Errorf("stocks: empty series for %s: %w", symbol, ErrNoQuote)
}

func (c *Client) fetchChart(ctx context.Context, symbol string) (*chartResponse, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("stocks: symbol is empty")
	}

	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("stocks: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stocks: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stocks: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stocks: http status %d: %s", resp.StatusCode, string(body))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("stocks: decode response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("stocks: provider error %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("stocks: no result for %s: %w", symbol, ErrNoQuote)
	}
	return &chart, nil
}
