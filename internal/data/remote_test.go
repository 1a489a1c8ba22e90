package data

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("x-api-key") != "secret-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/prices/aapl.txt":
			fmt.Fprint(w, "103\n102\n101\n")
		case "/prices/nflx.txt":
			fmt.Fprint(w, "50\n51\n52\n")
		case "/prices/busy.txt":
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPriceClient_FetchUniverse(t *testing.T) {
	var hits atomic.Int32
	srv := priceServer(t, &hits)
	c := NewPriceClient("secret-key", srv.URL+"/prices/")

	ps, err := c.FetchUniverse(context.Background(), []string{"aapl", "nflx"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, ps.Days())
	assert.Equal(t, 101.0, ps.At(0, 0))
	assert.Equal(t, 50.0, ps.At(1, 2))
}

func TestPriceClient_Errors(t *testing.T) {
	var hits atomic.Int32
	srv := priceServer(t, &hits)
	ctx := context.Background()

	tests := []struct {
		key, asset, code string
		status           int
	}{
		{"wrong", "aapl", "UNAUTHORIZED", http.StatusForbidden},
		{"secret-key", "tsla", "ASSET_NOT_FOUND", http.StatusNotFound},
		{"secret-key", "busy", "RATE_LIMIT_EXCEEDED", http.StatusTooManyRequests},
	}
	for _, tc := range tests {
		c := NewPriceClient(tc.key, srv.URL+"/prices")
		_, err := c.FetchPrices(ctx, tc.asset)
		var se *SourceError
		require.True(t, errors.As(err, &se), tc.asset)
		assert.Equal(t, tc.code, se.Code)
		assert.Equal(t, tc.status, se.StatusCode)
	}

	_, err := NewPriceClient("", "").FetchPrices(ctx, "aapl")
	var se *SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "MISSING_BASE_URL", se.Code)
}

func TestPriceClient_Cache(t *testing.T) {
	var hits atomic.Int32
	srv := priceServer(t, &hits)
	c := NewPriceClient("secret-key", srv.URL+"/prices")
	c.Cache = NewPriceCache(time.Minute)
	defer c.Cache.Close()

	for i := 0; i < 3; i++ {
		got, err := c.FetchPrices(context.Background(), "aapl")
		require.NoError(t, err)
		assert.Equal(t, []float64{101, 102, 103}, got)
	}
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, c.Cache.Len())
}

func TestPriceClient_CacheScopedToCredentials(t *testing.T) {
	var hits atomic.Int32
	srv := priceServer(t, &hits)
	cache := NewPriceCache(time.Minute)
	defer cache.Close()

	authed := NewPriceClient("secret-key", srv.URL+"/prices")
	authed.Cache = cache
	_, err := authed.FetchPrices(context.Background(), "aapl")
	require.NoError(t, err)

	anon := NewPriceClient("", srv.URL+"/prices")
	anon.Cache = cache
	_, err = anon.FetchPrices(context.Background(), "aapl")
	require.Error(t, err)

	assert.Equal(t, int32(2), hits.Load())
	assert.NotEqual(t, authed.cacheKey("aapl"), anon.cacheKey("aapl"))
}

func TestPriceCache_Expiry(t *testing.T) {
	c := NewPriceCache(20 * time.Millisecond)
	defer c.Close()

	c.Set("k", []float64{1, 2})
	got, ok := c.Get("k")
	require.True(t, ok)
	got[0] = 99
	again, _ := c.Get("k")
	assert.Equal(t, 1.0, again[0], "cache hands out copies")

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)

	var nilCache *PriceCache
	nilCache.Set("k", []float64{1})
	_, ok = nilCache.Get("k")
	assert.False(t, ok)
}
