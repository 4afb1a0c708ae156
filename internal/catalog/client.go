package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/config"
	choruserrors "github.com/tessro/chorus/internal/errors"
)

// Client is a track catalog client. Requests are never retried; a failed
// lookup is reported to the caller, who may repeat it manually.
type Client struct {
	httpClient *http.Client
	baseURL    string
	country    string
	limit      int
	userAgent  string
	cache      *Cache
	logger     zerolog.Logger
}

// New creates a catalog client from configuration.
func New(cfg config.CatalogConfig, logger zerolog.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		country:    cfg.Country,
		limit:      cfg.Limit,
		userAgent:  cfg.UserAgent,
		logger:     logger.With().Str("component", "catalog").Logger(),
	}
}

// SetCache enables response caching. A nil cache disables it.
func (c *Client) SetCache(cache *Cache) {
	c.cache = cache
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Get performs a GET request against the catalog and decodes the JSON body into result.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	fullURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", fullURL).Msg("catalog request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", choruserrors.ErrNetworkError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Str("url", fullURL).Msg("catalog response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// APIError represents a non-2xx catalog response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error: status %d", e.Status)
}

// Unwrap lets callers match any APIError with errors.Is(err, ErrUpstream).
func (e *APIError) Unwrap() error {
	return choruserrors.ErrUpstream
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
