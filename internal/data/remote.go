package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"universal-portfolio/internal/model"
)

// PriceClient fetches price files in the on-disk text format over HTTP:
// GET {BaseURL}/{asset}.txt.
type PriceClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client

	// Cache is optional. When set, successful fetches are reused until they expire.
	Cache *PriceCache
}

// NewPriceClient creates a client with a 30 second timeout. apiKey may be
// empty for sources that need no authentication.
func NewPriceClient(apiKey string, baseURL string) *PriceClient {
	return &PriceClient{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SourceError represents a failed fetch from a remote price source.
type SourceError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *SourceError) Error() string {
	return e.Message
}

// cacheKey scopes cached prices to the source and credentials that fetched them.
func (c *PriceClient) cacheKey(asset string) string {
	key := sha256.Sum256([]byte(c.APIKey))
	return c.BaseURL + "|" + hex.EncodeToString(key[:8]) + "|" + asset
}

// FetchPrices returns one asset's series, oldest first.
func (c *PriceClient) FetchPrices(ctx context.Context, asset string) ([]float64, error) {
	if c.BaseURL == "" {
		return nil, &SourceError{Code: "MISSING_BASE_URL", Message: "base URL is required"}
	}
	if asset == "" {
		return nil, fmt.Errorf("%w: asset name is required", model.ErrInvalidInput)
	}

	cacheKey := c.cacheKey(asset)
	if prices, ok := c.Cache.Get(cacheKey); ok {
		log.Printf("[PriceSource] Cache hit: %d prices (asset=%s)", len(prices), asset)
		return prices, nil
	}

	u, err := url.Parse(c.BaseURL + "/" + url.PathEscape(asset) + ".txt")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	log.Printf("[PriceSource] Request: GET %s (asset=%s)", u.Path, asset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}
	req.Header.Set("Accept", "text/plain")

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("[PriceSource] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[PriceSource] Response: %d (duration: %v, asset=%s)", resp.StatusCode, duration, asset)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: invalid API key",
		}
	case http.StatusNotFound:
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "ASSET_NOT_FOUND",
			Message:    fmt.Sprintf("no prices for asset %s", asset),
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "SOURCE_ERROR",
			Message:    fmt.Sprintf("price source returned status %d", resp.StatusCode),
		}
	}

	prices, err := ParsePrices(resp.Body, u.String())
	if err != nil {
		return nil, err
	}
	c.Cache.Set(cacheKey, prices)
	return prices, nil
}

// FetchUniverse fetches every asset and aligns them like LoadUniverse.
func (c *PriceClient) FetchUniverse(ctx context.Context, assets []string, window int) (*model.PriceSeries, error) {
	series := make([][]float64, len(assets))
	for i, a := range assets {
		prices, err := c.FetchPrices(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", a, err)
		}
		series[i] = prices
	}
	return BuildUniverse(assets, series, window)
}
