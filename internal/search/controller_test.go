package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/core"
	choruserrors "github.com/tessro/chorus/internal/errors"
)

type fakeFetcher struct {
	tracks  []core.Track
	err     error
	queries []string
	during  func()
}

func (f *fakeFetcher) Search(_ context.Context, q string) ([]core.Track, error) {
	f.queries = append(f.queries, q)
	if f.during != nil {
		f.during()
	}
	return f.tracks, f.err
}

type countingHaptics struct{ n int }

func (h *countingHaptics) Vibrate(time.Duration) error { h.n++; return nil }

func tracks(n int) []core.Track {
	out := make([]core.Track, n)
	for i := range out {
		out[i] = core.Track{ID: int64(i + 1), Title: fmt.Sprintf("Track %d", i+1)}
	}
	return out
}

func TestSearchPaginates(t *testing.T) {
	f := &fakeFetcher{tracks: tracks(45)}
	h := &countingHaptics{}
	c := New(f, h, zerolog.Nop())

	c.SetQuery("  hype boy ")
	c.Search(context.Background())

	s := c.State()
	if len(f.queries) != 1 || f.queries[0] != "hype boy" {
		t.Errorf("queries = %q, want [hype boy]", f.queries)
	}
	if !s.ResultMode || s.Loading {
		t.Errorf("ResultMode = %v, Loading = %v", s.ResultMode, s.Loading)
	}
	if len(s.Results) != 20 || !s.HasMore || s.Total != 45 {
		t.Fatalf("first page: %d results, HasMore %v, Total %d", len(s.Results), s.HasMore, s.Total)
	}

	wantPages := []struct {
		shown   int
		hasMore bool
	}{
		{40, true},
		{45, false},
		{45, false},
	}
	for i, want := range wantPages {
		c.LoadMore()
		s = c.State()
		if len(s.Results) != want.shown || s.HasMore != want.hasMore {
			t.Errorf("LoadMore #%d: %d results, HasMore %v, want %d, %v", i+1, len(s.Results), s.HasMore, want.shown, want.hasMore)
		}
	}

	if s.Results[44].ID != 45 {
		t.Errorf("last result = %+v", s.Results[44])
	}
	// One pulse for the search, one per LoadMore that revealed a page.
	if h.n != 3 {
		t.Errorf("haptic pulses = %d, want 3", h.n)
	}
	if len(f.queries) != 1 {
		t.Errorf("fetches = %d, want 1", len(f.queries))
	}
}

func TestSearchBlankQuery(t *testing.T) {
	f := &fakeFetcher{tracks: tracks(3)}
	c := New(f, nil, zerolog.Nop())

	c.SetQuery("   ")
	c.Search(context.Background())

	if len(f.queries) != 0 {
		t.Errorf("fetched for a blank query")
	}
	if c.State().ResultMode {
		t.Error("ResultMode = true for a blank query")
	}
}

func TestSearchFailure(t *testing.T) {
	f := &fakeFetcher{err: choruserrors.ErrNoResults}
	c := New(f, nil, zerolog.Nop())

	c.SetQuery("zzzz")
	c.Search(context.Background())

	s := c.State()
	if len(s.Results) != 0 || s.HasMore || s.Loading {
		t.Errorf("state after failure = %+v", s)
	}
	if !s.ResultMode {
		t.Error("ResultMode = false after a failed search")
	}
}

func TestSearchSmallResultSet(t *testing.T) {
	c := New(&fakeFetcher{tracks: tracks(5)}, nil, zerolog.Nop())
	c.SetQuery("ditto")
	c.Search(context.Background())

	s := c.State()
	if len(s.Results) != 5 || s.HasMore {
		t.Errorf("%d results, HasMore %v, want 5, false", len(s.Results), s.HasMore)
	}
}

func TestClear(t *testing.T) {
	h := &countingHaptics{}
	c := New(&fakeFetcher{tracks: tracks(30)}, h, zerolog.Nop())
	c.SetQuery("ditto")
	c.Search(context.Background())

	c.Clear()

	s := c.State()
	if s.Query != "" || s.ResultMode || len(s.Results) != 0 || !s.HasMore || s.Total != 0 {
		t.Errorf("state after Clear = %+v", s)
	}
	if h.n != 2 {
		t.Errorf("haptic pulses = %d, want 2", h.n)
	}
}

func TestClearDropsInFlightSearch(t *testing.T) {
	f := &fakeFetcher{tracks: tracks(10)}
	c := New(f, nil, zerolog.Nop())
	f.during = c.Clear

	c.SetQuery("ditto")
	c.Search(context.Background())

	s := c.State()
	if s.ResultMode || len(s.Results) != 0 {
		t.Errorf("stale results applied after Clear: %+v", s)
	}
}

func TestStateIsACopy(t *testing.T) {
	c := New(&fakeFetcher{tracks: tracks(3)}, nil, zerolog.Nop())
	c.SetQuery("ditto")
	c.Search(context.Background())

	s := c.State()
	s.Results[0].Title = "changed"
	if c.State().Results[0].Title != "Track 1" {
		t.Error("State() exposed internal storage")
	}
}

func TestAPIClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("q") {
		case "hype boy":
			fmt.Fprint(w, `[{"id":1,"title":"Hype Boy","artist":"NewJeans","album":"New Jeans","cover":"https://x/1000x1000bb.jpg","audio":"https://x/p.m4a"}]`)
		case "":
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"No query provided"}`)
		case "nothing":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"No track found"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"Internal Server Error"}`)
		}
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL+"/", srv.Client())

	got, err := c.Search(context.Background(), "hype boy")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := core.Track{ID: 1, Title: "Hype Boy", Artist: "NewJeans", Album: "New Jeans", CoverURL: "https://x/1000x1000bb.jpg", AudioURL: "https://x/p.m4a"}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Search() = %+v, want [%+v]", got, want)
	}

	tests := []struct {
		query string
		want  error
	}{
		{"", choruserrors.ErrMissingQuery},
		{"nothing", choruserrors.ErrNoResults},
		{"boom", choruserrors.ErrUpstream},
	}
	for _, tt := range tests {
		if _, err := c.Search(context.Background(), tt.query); !errors.Is(err, tt.want) {
			t.Errorf("Search(%q) error = %v, want %v", tt.query, err, tt.want)
		}
	}
}

func TestAPIClientLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tracks/7":
			fmt.Fprint(w, `{"id":7,"title":"Ditto","artist":"NewJeans","album":"OMG","cover":"https://x/c.jpg"}`)
		case "/api/tracks/8":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"Track not found"}`)
		case "/api/tracks/0":
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"Track ID must be numeric"}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL, srv.Client())

	got, err := c.Lookup(context.Background(), 7)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.Title != "Ditto" || got.HasAudio() {
		t.Errorf("Lookup() = %+v, want Ditto without audio", got)
	}

	tests := []struct {
		id   int64
		want error
	}{
		{8, choruserrors.ErrTrackNotFound},
		{0, choruserrors.ErrInvalidTrackID},
		{9, choruserrors.ErrUpstream},
	}
	for _, tt := range tests {
		if _, err := c.Lookup(context.Background(), tt.id); !errors.Is(err, tt.want) {
			t.Errorf("Lookup(%d) error = %v, want %v", tt.id, err, tt.want)
		}
	}
}
