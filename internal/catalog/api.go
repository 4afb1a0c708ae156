package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tessro/chorus/internal/core"
	choruserrors "github.com/tessro/chorus/internal/errors"
)

// SearchOptions configures a term search. It is also the cache key.
type SearchOptions struct {
	Term    string
	Entity  string
	Limit   int
	Country string
}

type lookupKey struct {
	ID      int64
	Country string
}

// Search finds songs matching term. It returns ErrNoResults when the catalog has none.
func (c *Client) Search(ctx context.Context, term string) ([]core.Track, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, choruserrors.ErrMissingQuery
	}

	opts := SearchOptions{
		Term:    term,
		Entity:  "song",
		Limit:   c.limit,
		Country: c.country,
	}

	if cached, ok := c.cache.Get(opts); ok {
		c.logger.Debug().Str("term", term).Msg("search cache hit")
		return cached, nil
	}

	params := map[string]string{
		"term":   opts.Term,
		"entity": opts.Entity,
	}
	if opts.Limit > 0 {
		params["limit"] = strconv.Itoa(opts.Limit)
	}
	if opts.Country != "" {
		params["country"] = opts.Country
	}

	var resp Response
	if err := c.Get(ctx, BuildURL("/search", params), &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	if resp.ResultCount == 0 || len(resp.Results) == 0 {
		return nil, choruserrors.ErrNoResults
	}

	tracks := convertTracks(resp.Results)
	c.cache.Put(opts, tracks)
	return tracks, nil
}

// Lookup fetches a single track by catalog id.
func (c *Client) Lookup(ctx context.Context, id int64) (*core.Track, error) {
	if id <= 0 {
		return nil, choruserrors.ErrInvalidTrackID
	}

	key := lookupKey{ID: id, Country: c.country}
	if cached, ok := c.cache.Get(key); ok && len(cached) > 0 {
		t := cached[0]
		return &t, nil
	}

	params := map[string]string{"id": strconv.FormatInt(id, 10)}
	if c.country != "" {
		params["country"] = c.country
	}

	var resp Response
	if err := c.Get(ctx, BuildURL("/lookup", params), &resp); err != nil {
		return nil, fmt.Errorf("lookup %d: %w", id, err)
	}

	if len(resp.Results) == 0 {
		return nil, choruserrors.ErrTrackNotFound
	}

	track := convertTrack(&resp.Results[0])
	c.cache.Put(key, []core.Track{*track})
	return track, nil
}
