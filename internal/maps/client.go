package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/heypico/waypoint/internal/core/quota"
	"github.com/heypico/waypoint/internal/observability"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

const cacheSize = 512

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	FrontendKey string
	HTTPClient  *http.Client
	Quota       *quota.Tracker
	Logger      *zap.Logger

	DefaultRadius int
	MaxResults    int
	DefaultCenter Coordinates
	DefaultZoom   int

	CacheTTL    time.Duration
	CacheEnable bool
}

// Client calls the mapping provider's REST endpoints. Search and geocode
// results are cached in an expirable LRU so repeated queries do not burn
// quota.
type Client struct {
	baseURL     string
	apiKey      string
	frontendKey string
	httpClient  *http.Client
	quota       *quota.Tracker
	logger      *zap.Logger

	defaultRadius int
	maxResults    int
	defaultCenter Coordinates
	defaultZoom   int

	searchCache  *lru.LRU[string, []Place]
	geocodeCache *lru.LRU[string, Geocoded]
}

// NewClient returns a Client with defaults applied.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		apiKey:        strings.TrimSpace(opts.APIKey),
		frontendKey:   strings.TrimSpace(opts.FrontendKey),
		httpClient:    opts.HTTPClient,
		quota:         opts.Quota,
		logger:        opts.Logger,
		defaultRadius: opts.DefaultRadius,
		maxResults:    opts.MaxResults,
		defaultCenter: opts.DefaultCenter,
		defaultZoom:   opts.DefaultZoom,
	}

	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.defaultRadius <= 0 {
		c.defaultRadius = 5000
	}
	if c.maxResults <= 0 {
		c.maxResults = 10
	}
	if c.defaultZoom <= 0 {
		c.defaultZoom = 13
	}

	if opts.CacheEnable {
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = time.Hour
		}
		c.searchCache = lru.NewLRU[string, []Place](cacheSize, nil, ttl)
		c.geocodeCache = lru.NewLRU[string, Geocoded](cacheSize, nil, ttl)
	}

	return c
}

// Configured reports whether a backend API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// CheckHealth reports readiness of the maps integration. Configuration is
// checked instead of the provider itself so health probes never spend quota.
func (c *Client) CheckHealth(ctx context.Context) error {
	if !c.Configured() {
		return errors.New("maps api key not configured")
	}
	return nil
}

// QuotaRemaining reports the remaining budget for a category, or -1 when no
// tracker is wired.
func (c *Client) QuotaRemaining(category string) int {
	if c.quota == nil {
		return -1
	}
	return c.quota.Remaining(category)
}

// FrontendConfig returns the browser bootstrap settings. The restricted
// frontend key is preferred; the backend key is the documented fallback for
// local demos.
func (c *Client) FrontendConfig() FrontendConfig {
	key := c.frontendKey
	if key == "" {
		c.logger.Warn("frontend maps key not configured, falling back to backend key")
		key = c.apiKey
	}

	return FrontendConfig{
		APIKey:        key,
		DefaultCenter: c.defaultCenter,
		DefaultZoom:   c.defaultZoom,
	}
}

// PhotoURL builds a provider photo URL for a photo reference.
func (c *Client) PhotoURL(photoReference string, maxWidth int) string {
	if maxWidth < 1 || maxWidth > 1600 {
		maxWidth = 400
	}

	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("photo_reference", photoReference)
	params.Set("key", c.apiKey)
	return c.baseURL + "/place/photo?" + params.Encode()
}

// reserve takes one quota unit for category, recording the refusal metric
// when the pool is empty.
func (c *Client) reserve(category string) error {
	if c.quota == nil {
		return nil
	}
	if !c.quota.TryReserve(category) {
		observability.QuotaExhaustedTotal.WithLabelValues(category).Inc()
		return ErrQuotaExhausted
	}
	return nil
}

// get performs one provider GET and decodes the JSON payload into target.
// The reservation for category must already be held; it is released only
// when the request could not be built, since such a request was never handed
// to the transport and cannot have been billed.
func (c *Client) get(ctx context.Context, category, path string, params url.Values, target any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		if c.quota != nil {
			c.quota.Release(category)
		}
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(category, "transport_error").Inc()
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(category, "transport_error").Inc()
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		observability.ProviderRequestsTotal.WithLabelValues(category, "http_error").Inc()
		return &ProviderError{StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, target); err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(category, "decode_error").Inc()
		return fmt.Errorf("decode response: %w", err)
	}

	observability.ProviderRequestsTotal.WithLabelValues(category, "ok").Inc()
	return nil
}

// checkStatus maps a provider status string onto the error taxonomy.
// ZERO_RESULTS is not an error; it surfaces as an empty result set.
func checkStatus(status, errorMessage string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	default:
		return &ProviderError{Status: status, Message: errorMessage}
	}
}
