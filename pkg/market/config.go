package market

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"quantbrief/pkg/confkit"
	"quantbrief/pkg/market/coingecko"
	"quantbrief/pkg/market/stocks"
)

const envCoingeckoPriceURL = "COINGECKO_API_URL"

// Config describes the price data providers available to the application.
type Config struct {
	Stocks StocksConfig `yaml:"stocks"`
	Crypto CryptoConfig `yaml:"crypto"`
}

// StocksConfig configures the equity chart provider.
type StocksConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"-"`
	timeoutRaw string
}

// CryptoConfig configures the crypto metadata and spot price provider.
type CryptoConfig struct {
	ListURL    string        `yaml:"list_url"`
	PriceURL   string        `yaml:"price_url"`
	Timeout    time.Duration `yaml:"-"`
	timeoutRaw string
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		Stocks struct {
			BaseURL string `yaml:"base_url"`
			Timeout string `yaml:"timeout"`
		} `yaml:"stocks"`
		Crypto struct {
			ListURL  string `yaml:"list_url"`
			PriceURL string `yaml:"price_url"`
			Timeout  string `yaml:"timeout"`
		} `yaml:"crypto"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read market config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal market config: %w", err)
	}

	cfg := &Config{
		Stocks: StocksConfig{BaseURL: raw.Stocks.BaseURL, timeoutRaw: raw.Stocks.Timeout},
		Crypto: CryptoConfig{ListURL: raw.Crypto.ListURL, PriceURL: raw.Crypto.PriceURL, timeoutRaw: raw.Crypto.Timeout},
	}
	cfg.expandEnv()
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a config populated from the environment alone.
func DefaultConfig() *Config {
	confkit.LoadDotenvOnce()
	cfg := &Config{}
	cfg.expandEnv()
	return cfg
}

func (c *Config) expandEnv() {
	c.Stocks.BaseURL = strings.TrimSpace(os.ExpandEnv(c.Stocks.BaseURL))
	c.Stocks.timeoutRaw = strings.TrimSpace(os.ExpandEnv(c.Stocks.timeoutRaw))
	c.Crypto.ListURL = strings.TrimSpace(os.ExpandEnv(c.Crypto.ListURL))
	c.Crypto.PriceURL = strings.TrimSpace(os.ExpandEnv(c.Crypto.PriceURL))
	c.Crypto.timeoutRaw = strings.TrimSpace(os.ExpandEnv(c.Crypto.timeoutRaw))

	if envVal := os.Getenv(envCoingeckoPriceURL); envVal != "" {
		c.Crypto.PriceURL = envVal
	}
}

func (c *Config) parseDurations() error {
	var err error
	if c.Stocks.Timeout, err = parseTimeout("stocks", c.Stocks.timeoutRaw); err != nil {
		return err
	}
	if c.Crypto.Timeout, err = parseTimeout("crypto", c.Crypto.timeoutRaw); err != nil {
		return err
	}
	return nil
}

func parseTimeout(name, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("market provider %s: invalid timeout %q: %w", name, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("market provider %s: timeout must be positive, got %s", name, d)
	}
	return d, nil
}

// NewStockClient builds a stock data client from the config.
func (c *Config) NewStockClient() *stocks.Client {
	opts := []stocks.Option{}
	if c.Stocks.BaseURL != "" {
		opts = append(opts, stocks.WithBaseURL(c.Stocks.BaseURL))
	}
	if c.Stocks.Timeout > 0 {
		opts = append(opts, stocks.WithTimeout(c.Stocks.Timeout))
	}
	return stocks.NewClient(opts...)
}

// NewCryptoClient builds a CoinGecko client from the config.
func (c *Config) NewCryptoClient() *coingecko.Client {
	opts := []coingecko.Option{}
	if c.Crypto.ListURL != "" {
		opts = append(opts, coingecko.WithListURL(c.Crypto.ListURL))
	}
	if c.Crypto.PriceURL != "" {
		opts = append(opts, coingecko.WithPriceURL(c.Crypto.PriceURL))
	}
	if c.Crypto.Timeout > 0 {
		opts = append(opts, coingecko.WithTimeout(c.Crypto.Timeout))
	}
	return coingecko.NewClient(opts...)
}
