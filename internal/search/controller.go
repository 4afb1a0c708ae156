// Package search holds the search screen's state: one network fetch per
// query, then pagination over the results in memory.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/core"
	"github.com/tessro/chorus/internal/platform"
)

// PageSize is how many results each page reveals.
const PageSize = 20

// Fetcher returns every track matching a query.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]core.Track, error)
}

// State is a snapshot of the search screen.
type State struct {
	Query      string
	Loading    bool
	ResultMode bool
	Results    []core.Track
	HasMore    bool
	Total      int
}

// Controller is safe for concurrent use; Search blocks while fetching.
type Controller struct {
	fetcher Fetcher
	haptics platform.Haptics
	log     zerolog.Logger

	mu         sync.Mutex
	query      string
	loading    bool
	resultMode bool
	all        []core.Track
	shown      int
	hasMore    bool
	// seq discards fetches superseded by a newer search or a clear.
	seq uint64
}

// New returns an empty controller. haptics may be nil.
func New(fetcher Fetcher, haptics platform.Haptics, logger zerolog.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		haptics: haptics,
		log:     logger.With().Str("component", "search").Logger(),
		hasMore: true,
	}
}

// SetQuery replaces the pending query.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

// Search fetches results for the current query and shows the first page.
// A blank query does nothing. Failures leave an empty, exhausted list.
func (c *Controller) Search(ctx context.Context) {
	c.mu.Lock()
	query := strings.TrimSpace(c.query)
	if query == "" {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.loading = true
	c.resultMode = true
	c.all = nil
	c.shown = 0
	c.hasMore = true
	c.mu.Unlock()

	c.haptic()
	start := time.Now()
	tracks, err := c.fetcher.Search(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	c.loading = false

	if err != nil {
		c.log.Error().Err(err).Str("query", query).Msg("search failed")
		c.all = nil
		c.hasMore = false
		return
	}

	c.log.Debug().Str("query", query).Int("results", len(tracks)).Dur("took", time.Since(start)).Msg("search")
	c.all = tracks
	c.nextPage()
}

// LoadMore reveals the next page.
func (c *Controller) LoadMore() {
	c.mu.Lock()
	if !c.hasMore {
		c.mu.Unlock()
		return
	}
	c.nextPage()
	c.mu.Unlock()
	c.haptic()
}

// nextPage reveals up to PageSize more results. Caller holds c.mu.
func (c *Controller) nextPage() {
	c.shown = min(c.shown+PageSize, len(c.all))
	if c.shown >= len(c.all) {
		c.hasMore = false
	}
}

// Clear returns to the landing state and drops any fetch in flight.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.seq++
	c.query = ""
	c.loading = false
	c.resultMode = false
	c.all = nil
	c.shown = 0
	c.hasMore = true
	c.mu.Unlock()
	c.haptic()
}

// State returns a snapshot. Results holds only the revealed pages.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Query:      c.query,
		Loading:    c.loading,
		ResultMode: c.resultMode,
		Results:    append([]core.Track(nil), c.all[:c.shown]...),
		HasMore:    c.hasMore,
		Total:      len(c.all),
	}
}

func (c *Controller) haptic() {
	if c.haptics == nil {
		return
	}
	if err := c.haptics.Vibrate(10 * time.Millisecond); err != nil {
		c.log.Debug().Err(err).Msg("haptic feedback")
	}
}
