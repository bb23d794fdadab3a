package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromReader(t *testing.T) {
	t.Setenv(envAPIKey, "override-key")
	t.Setenv(envTimeout, "45s")
	t.Setenv(envMaxRetries, "5")

	data := `
base_url: "https://example.com/v1"
api_key: "${GEMINI_API_KEY}"
model: "gemini-2.5-flash"
timeout: "30s"
max_retries: 2
log_level: "debug"
`

	cfg, err := LoadConfigFromReader(strings.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, "https://example.com/v1", cfg.BaseURL)
	require.Equal(t, "override-key", cfg.APIKey)
	require.Equal(t, "gemini-2.5-flash", cfg.Model)
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv(envAPIKey, "")
	t.Setenv(envTimeout, "")
	t.Setenv(envMaxRetries, "")

	cfg, err := LoadConfigFromReader(strings.NewReader("{}"))
	require.NoError(t, err)

	require.Equal(t, defaultBaseURL, cfg.BaseURL)
	require.Equal(t, defaultModel, cfg.Model)
	require.Equal(t, defaultTimeout, cfg.Timeout)
	require.Equal(t, defaultMaxRetries, cfg.MaxRetries)
	// A missing key is not a load failure; it surfaces at call time.
	require.Empty(t, cfg.APIKey)
}

func TestConfigInvalidTimeout(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader(`timeout: "nonsense"`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid timeout")
}

func TestDefaultConfigEnvOnly(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv(envAPIKey, "env-key")
	t.Setenv(envModel, "gemini-2.0-flash")
	t.Setenv(envTimeout, "9s")

	cfg := DefaultConfig()
	require.Equal(t, "env-key", cfg.APIKey)
	require.Equal(t, "gemini-2.0-flash", cfg.Model)
	require.Equal(t, 9*time.Second, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}
