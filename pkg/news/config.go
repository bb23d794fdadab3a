package news

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"quantbrief/pkg/confkit"
)

const (
	defaultCompanyNewsURL = "https://finnhub.io/api/v1/company-news"
	defaultCryptoNewsURL  = "https://finnhub.io/api/v1/news"
	defaultHTTPTimeout    = 10 * time.Second

	envAPIKey         = "FINNHUB_API_KEY"
	envCompanyNewsURL = "FINNHUB_COMPANY_NEWS_URL"
	envCryptoNewsURL  = "FINNHUB_CRYPTO_NEWS_URL"
)

// Config holds news provider settings.
type Config struct {
	APIKey         string        `yaml:"api_key"`
	CompanyNewsURL string        `yaml:"company_news_url"`
	CryptoNewsURL  string        `yaml:"crypto_news_url"`
	Timeout        time.Duration `yaml:"-"`

	timeoutRaw string
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open news config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		APIKey         string `yaml:"api_key"`
		CompanyNewsURL string `yaml:"company_news_url"`
		CryptoNewsURL  string `yaml:"crypto_news_url"`
		Timeout        string `yaml:"timeout"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read news config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal news config: %w", err)
	}

	cfg := &Config{
		APIKey:         raw.APIKey,
		CompanyNewsURL: raw.CompanyNewsURL,
		CryptoNewsURL:  raw.CryptoNewsURL,
		timeoutRaw:     raw.Timeout,
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.parseTimeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a config populated from the environment alone.
// A missing API key is reported by the provider at call time, not here.
func DefaultConfig() *Config {
	confkit.LoadDotenvOnce()
	cfg := &Config{}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.CompanyNewsURL) == "" {
		c.CompanyNewsURL = defaultCompanyNewsURL
	}
	if strings.TrimSpace(c.CryptoNewsURL) == "" {
		c.CryptoNewsURL = defaultCryptoNewsURL
	}
}

func (c *Config) applyEnvOverrides() {
	c.APIKey = expandAndOverride(c.APIKey, envAPIKey)
	c.CompanyNewsURL = expandAndOverride(c.CompanyNewsURL, envCompanyNewsURL)
	c.CryptoNewsURL = expandAndOverride(c.CryptoNewsURL, envCryptoNewsURL)
	c.timeoutRaw = os.ExpandEnv(c.timeoutRaw)
}

func (c *Config) parseTimeout() error {
	if strings.TrimSpace(c.timeoutRaw) == "" {
		c.Timeout = defaultHTTPTimeout
		return nil
	}
	d, err := time.ParseDuration(c.timeoutRaw)
	if err != nil {
		return fmt.Errorf("news config: invalid timeout %q: %w", c.timeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("news config: timeout must be positive, got %s", d)
	}
	c.Timeout = d
	return nil
}

func expandAndOverride(current, envKey string) string {
	current = os.ExpandEnv(current)
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal
	}
	return current
}
