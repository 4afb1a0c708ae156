package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/config"
	choruserrors "github.com/tessro/chorus/internal/errors"
)

const searchBody = `{
  "resultCount": 2,
  "results": [
    {"wrapperType": "track", "kind": "song", "trackId": 101, "trackName": "Hype Boy",
     "artistName": "NewJeans", "collectionName": "New Jeans",
     "artworkUrl100": "https://is1.example.com/image/thumb/Music/ab/cd/100x100bb.jpg",
     "previewUrl": "https://audio.example.com/101.m4a"},
    {"wrapperType": "track", "kind": "song", "trackId": 102, "trackName": "Attention",
     "artistName": "NewJeans", "collectionName": "New Jeans",
     "artworkUrl100": "https://is1.example.com/image/thumb/Music/ab/cd/100x100bb.jpg"}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default().Catalog
	cfg.BaseURL = srv.URL
	return New(cfg, zerolog.Nop())
}

func TestSearch(t *testing.T) {
	var gotQuery, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(searchBody))
	})

	tracks, err := c.Search(context.Background(), "  hype boy ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(tracks) != 2 {
		t.Fatalf("Search() returned %d tracks, want 2", len(tracks))
	}
	if tracks[0].ID != 101 || tracks[0].Title != "Hype Boy" {
		t.Errorf("tracks[0] = %+v", tracks[0])
	}
	if tracks[0].CoverURL != "https://is1.example.com/image/thumb/Music/ab/cd/1000x1000bb.jpg" {
		t.Errorf("CoverURL = %q, want high-res variant", tracks[0].CoverURL)
	}
	if tracks[1].AudioURL != "" {
		t.Errorf("tracks[1].AudioURL = %q, want empty", tracks[1].AudioURL)
	}
	want := "country=KR&entity=song&limit=200&term=hype+boy"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if gotUA != config.DefaultUserAgent {
		t.Errorf("User-Agent = %q, want browser agent", gotUA)
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		status  int
		body    string
		wantErr error
	}{
		{"blank term", "   ", http.StatusOK, searchBody, choruserrors.ErrMissingQuery},
		{"zero results", "zzz", http.StatusOK, `{"resultCount":0,"results":[]}`, choruserrors.ErrNoResults},
		{"upstream 403", "abc", http.StatusForbidden, `denied`, choruserrors.ErrUpstream},
		{"upstream 503", "abc", http.StatusServiceUnavailable, ``, choruserrors.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Search(context.Background(), tt.term)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Search() error = %v, want %v", err, tt.wantErr)
			}
			if tt.status >= 400 && atomic.LoadInt32(&calls) != 1 {
				t.Errorf("upstream called %d times, want exactly 1 (no retries)", calls)
			}
		})
	}
}

func TestSearchUsesCache(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(searchBody))
	})
	c.SetCache(NewCache(time.Minute, 8))

	for i := 0; i < 3; i++ {
		if _, err := c.Search(context.Background(), "hype boy"); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("upstream called %d times, want 1", got)
	}
}

func TestLookup(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "101":
			_, _ = w.Write([]byte(searchBody))
		default:
			_, _ = w.Write([]byte(`{"resultCount":0,"results":[]}`))
		}
	})

	track, err := c.Lookup(context.Background(), 101)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if track.Title != "Hype Boy" || track.Artist != "NewJeans" {
		t.Errorf("Lookup() = %+v", track)
	}

	if _, err := c.Lookup(context.Background(), 999); !errors.Is(err, choruserrors.ErrTrackNotFound) {
		t.Errorf("Lookup(999) error = %v, want ErrTrackNotFound", err)
	}
	if _, err := c.Lookup(context.Background(), 0); !errors.Is(err, choruserrors.ErrInvalidTrackID) {
		t.Errorf("Lookup(0) error = %v, want ErrInvalidTrackID", err)
	}
}

func TestBuildURL(t *testing.T) {
	if got := BuildURL("/lookup", nil); got != "/lookup" {
		t.Errorf("BuildURL() = %q, want %q", got, "/lookup")
	}
	if got := BuildURL("/lookup", map[string]string{"id": "5"}); got != "/lookup?id=5" {
		t.Errorf("BuildURL() = %q, want %q", got, "/lookup?id=5")
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{Status: 500}
	if got := err.Error(); got != "catalog API error: status 500" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, choruserrors.ErrUpstream) {
		t.Error("errors.Is(APIError, ErrUpstream) = false, want true")
	}
}
