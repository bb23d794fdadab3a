package llm

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"quantbrief/pkg/confkit"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultModel      = "gemini-2.5-flash"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3
	defaultLogLevel   = "info"

	envAPIKey     = "GEMINI_API_KEY"
	envBaseURL    = "LLM_BASE_URL"
	envModel      = "LLM_MODEL"
	envTimeout    = "LLM_TIMEOUT"
	envMaxRetries = "LLM_MAX_RETRIES"
)

// Config holds runtime settings for the LLM client.
type Config struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	Timeout    time.Duration `yaml:"-"`
	MaxRetries int           `yaml:"max_retries"`
	LogLevel   string        `yaml:"log_level"`

	timeoutRaw string
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open llm config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		Model      string `yaml:"model"`
		Timeout    string `yaml:"timeout"`
		MaxRetries int    `yaml:"max_retries"`
		LogLevel   string `yaml:"log_level"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read llm config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal llm config: %w", err)
	}

	cfg := &Config{
		BaseURL:    raw.BaseURL,
		APIKey:     raw.APIKey,
		Model:      raw.Model,
		MaxRetries: raw.MaxRetries,
		LogLevel:   raw.LogLevel,
		timeoutRaw: raw.Timeout,
	}

	cfg.applyEnvOverrides()
	cfg.ApplyDefaults()
	if err := cfg.parseTimeout(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a config suitable for env-only operation. A missing
// API key is not an error here; the first chat call will fail instead and be
// reported as an inference failure.
func DefaultConfig() *Config {
	confkit.LoadDotenvOnce()
	cfg := &Config{}
	cfg.applyEnvOverrides()
	cfg.ApplyDefaults()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.timeoutRaw != "" {
		if d, err := time.ParseDuration(cfg.timeoutRaw); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// Validate checks that configuration values are usable. The API key is
// deliberately not required at load time; its absence surfaces as a failed
// inference call.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("llm config: base_url is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("llm config: model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("llm config: timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm config: max_retries cannot be negative")
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = defaultModel
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
}

func (c *Config) applyEnvOverrides() {
	c.BaseURL = expandAndOverride(c.BaseURL, envBaseURL)
	c.APIKey = expandAndOverride(c.APIKey, envAPIKey)
	c.Model = expandAndOverride(c.Model, envModel)

	if raw := os.Getenv(envTimeout); raw != "" {
		c.timeoutRaw = raw
	} else {
		c.timeoutRaw = os.ExpandEnv(c.timeoutRaw)
	}

	if raw := os.Getenv(envMaxRetries); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			c.MaxRetries = v
		}
	}
}

func (c *Config) parseTimeout() error {
	if strings.TrimSpace(c.timeoutRaw) == "" {
		c.Timeout = defaultTimeout
		return nil
	}

	d, err := time.ParseDuration(c.timeoutRaw)
	if err != nil {
		return fmt.Errorf("llm config: invalid timeout %q: %w", c.timeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("llm config: timeout must be positive, got %s", d)
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
