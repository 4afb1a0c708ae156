package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTrackHasAudio(t *testing.T) {
	var nilTrack *Track
	if nilTrack.HasAudio() {
		t.Error("nil track HasAudio() = true, want false")
	}
	if (&Track{}).HasAudio() {
		t.Error("HasAudio() = true for empty audio url, want false")
	}
	if !(&Track{AudioURL: "https://example.com/p.m4a"}).HasAudio() {
		t.Error("HasAudio() = false, want true")
	}
}

func TestTrackJSONOmitsMissingAudio(t *testing.T) {
	data, err := json.Marshal(Track{ID: 7, Title: "Song"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), `"audio"`) {
		t.Errorf("Marshal() = %s, want no audio key", data)
	}
	if !strings.Contains(string(data), `"cover":""`) {
		t.Errorf("Marshal() = %s, want cover key", data)
	}
}

func TestRGB(t *testing.T) {
	c := RGB{R: 255, G: 16, B: 0}
	if got := c.String(); got != "255, 16, 0" {
		t.Errorf("String() = %q, want %q", got, "255, 16, 0")
	}
	if got := c.Hex(); got != "#ff1000" {
		t.Errorf("Hex() = %q, want %q", got, "#ff1000")
	}
}
