package market

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromReader(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("COINGECKO_API_URL", "")
	t.Setenv("STOCK_BASE", "https://stocks.test")

	data := `
stocks:
  base_url: ${STOCK_BASE}
  timeout: 7s
crypto:
  list_url: https://gecko.test/coins/list
  price_url: https://gecko.test/simple/price
  timeout: 11s
`
	cfg, err := LoadConfigFromReader(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "https://stocks.test", cfg.Stocks.BaseURL)
	require.Equal(t, 7*time.Second, cfg.Stocks.Timeout)
	require.Equal(t, "https://gecko.test/simple/price", cfg.Crypto.PriceURL)
	require.Equal(t, 11*time.Second, cfg.Crypto.Timeout)
}

func TestSpotPriceURLEnvOverride(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("COINGECKO_API_URL", "https://override.test/simple/price")

	cfg, err := LoadConfigFromReader(strings.NewReader(`
crypto:
  price_url: https://gecko.test/simple/price
`))
	require.NoError(t, err)
	require.Equal(t, "https://override.test/simple/price", cfg.Crypto.PriceURL)
}

func TestInvalidTimeoutRejected(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader(`
stocks:
  timeout: banana
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid timeout")
}

func TestClientBuilders(t *testing.T) {
	cfg := &Config{}
	require.NotNil(t, cfg.NewStockClient())
	require.NotNil(t, cfg.NewCryptoClient())
}
