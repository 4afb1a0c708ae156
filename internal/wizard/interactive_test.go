package wizard

import (
	"strings"
	"testing"

	"github.com/tessro/chorus/internal/core"
)

func sampleTracks() []core.Track {
	return []core.Track{
		{ID: 1, Title: "Hype Boy", Artist: "NewJeans", AudioURL: "https://example.com/1.m4a"},
		{ID: 2, Title: "Ditto", Artist: "NewJeans"},
	}
}

func TestTrackOptions(t *testing.T) {
	opts := TrackOptions(sampleTracks())
	if len(opts) != 2 {
		t.Fatalf("len(TrackOptions()) = %d, want 2", len(opts))
	}
	if opts[0].Value != "1" || opts[0].Key != "Hype Boy — NewJeans" {
		t.Errorf("option 0 = %q/%q", opts[0].Key, opts[0].Value)
	}
	if !strings.HasSuffix(opts[1].Key, "[no preview]") {
		t.Errorf("option 1 = %q, want a no preview marker", opts[1].Key)
	}

	many := make([]core.Track, 80)
	for i := range many {
		many[i] = core.Track{ID: int64(i)}
	}
	if got := len(TrackOptions(many)); got != maxOptions {
		t.Errorf("len(TrackOptions(80)) = %d, want %d", got, maxOptions)
	}
}

func TestFindTrack(t *testing.T) {
	tracks := sampleTracks()
	tests := []struct {
		id     string
		wantID int64
	}{
		{"1", 1},
		{"2", 2},
		{"3", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		got := FindTrack(tracks, tt.id)
		if tt.wantID == 0 {
			if got != nil {
				t.Errorf("FindTrack(%q) = %+v, want nil", tt.id, got)
			}
			continue
		}
		if got == nil || got.ID != tt.wantID {
			t.Errorf("FindTrack(%q) = %+v, want id %d", tt.id, got, tt.wantID)
		}
	}
}

func TestNeedsTrack(t *testing.T) {
	if !NeedsTrack(nil) {
		t.Error("NeedsTrack(nil) = false, want true")
	}
	if NeedsTrack([]string{"42"}) {
		t.Error("NeedsTrack([42]) = true, want false")
	}
}

func TestPickTrackDisabled(t *testing.T) {
	i := NewInteractive()
	i.SetEnabled(false)
	if _, err := i.PickTrack("Pick", sampleTracks()); err != ErrNotInteractive {
		t.Errorf("PickTrack() error = %v, want ErrNotInteractive", err)
	}
}
