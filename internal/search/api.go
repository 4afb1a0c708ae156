package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tessro/chorus/internal/core"
	choruserrors "github.com/tessro/chorus/internal/errors"
)

// APIClient queries a chorus proxy's search endpoint.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient returns a client for the proxy at baseURL. A nil client
// gets a 15 second timeout.
func NewAPIClient(baseURL string, hc *http.Client) *APIClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// Search calls GET /api/search?q=query.
func (c *APIClient) Search(ctx context.Context, query string) ([]core.Track, error) {
	var tracks []core.Track
	path := "/api/search?" + url.Values{"q": {query}}.Encode()
	if err := c.get(ctx, path, choruserrors.ErrMissingQuery, choruserrors.ErrNoResults, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Lookup calls GET /api/tracks/{id}.
func (c *APIClient) Lookup(ctx context.Context, id int64) (*core.Track, error) {
	var track core.Track
	path := "/api/tracks/" + strconv.FormatInt(id, 10)
	if err := c.get(ctx, path, choruserrors.ErrInvalidTrackID, choruserrors.ErrTrackNotFound, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// get fetches path and decodes the JSON body into result. The proxy's 400
// and 404 answers map onto badRequest and notFound.
func (c *APIClient) get(ctx context.Context, path string, badRequest, notFound error, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", choruserrors.ErrNetworkError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return badRequest
	case resp.StatusCode == http.StatusNotFound:
		return notFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %s (status %d)", choruserrors.ErrUpstream, e.Error, resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
