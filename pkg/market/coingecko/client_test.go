package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const listingBody = `[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin"},
	{"id":"ethereum","symbol":"eth","name":"Ethereum"},
	{"id":"dogecoin","symbol":"doge","name":"Dogecoin"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		WithListURL(server.URL+"/coins/list"),
		WithPriceURL(server.URL+"/simple/price"),
	)
}

func TestResolveIDMatchesAnyField(t *testing.T) {
	var listCalls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		fmt.Fprint(w, listingBody)
	})

	for _, query := range []string{"bitcoin", "BTC", "Bitcoin", "bItCoIn"} {
		id, err := client.ResolveID(context.Background(), query)
		require.NoError(t, err, "query %q", query)
		require.Equal(t, "bitcoin", id, "query %q", query)
	}

	id, err := client.ResolveID(context.Background(), "ETH")
	require.NoError(t, err)
	require.Equal(t, "ethereum", id)

	// The listing is fetched once and reused for every lookup.
	require.Equal(t, 1, listCalls)
}

func TestResolveIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingBody)
	})

	_, err := client.ResolveID(context.Background(), "notacoin")
	require.ErrorIs(t, err, ErrCoinNotFound)

	_, err = client.ResolveID(context.Background(), "")
	require.ErrorIs(t, err, ErrCoinNotFound)
}

func TestResolveIDRetriesAfterFailedFetch(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, listingBody)
	})

	_, err := client.ResolveID(context.Background(), "btc")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCoinNotFound)

	// A failed fetch leaves the cache empty, so the next call tries again.
	id, err := client.ResolveID(context.Background(), "btc")
	require.NoError(t, err)
	require.Equal(t, "bitcoin", id)
	require.Equal(t, 2, calls)
}

func TestSpotPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		require.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		fmt.Fprint(w, `{"bitcoin":{"usd":34000.50}}`)
	})

	price, err := client.SpotPrice(context.Background(), "bitcoin")
	require.NoError(t, err)
	require.Equal(t, 34000.50, price)
}

func TestSpotPriceMissingQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := client.SpotPrice(context.Background(), "bitcoin")
	require.ErrorIs(t, err, ErrNoQuote)

	_, err = client.SpotPrice(context.Background(), "")
	require.ErrorIs(t, err, ErrNoQuote)
}
