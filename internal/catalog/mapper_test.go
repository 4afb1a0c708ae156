package catalog

import "testing"

func TestHighResCover(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"https://x.example.com/a/b/100x100bb.jpg", "https://x.example.com/a/b/1000x1000bb.jpg"},
		{"https://x.example.com/a/b/60x60-85.jpg", "https://x.example.com/a/b/1000x1000bb.jpg"},
		{"https://x.example.com/a/b/cover.png", "https://x.example.com/a/b/cover.png"},
	}

	for _, tt := range tests {
		if got := HighResCover(tt.in); got != tt.want {
			t.Errorf("HighResCover(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvertTrack(t *testing.T) {
	r := &Result{
		TrackID:        7,
		TrackName:      "Ditto",
		ArtistName:     "NewJeans",
		CollectionName: "OMG",
		ArtworkURL100:  "https://x.example.com/100x100bb.jpg",
		PreviewURL:     "https://audio.example.com/7.m4a",
	}

	got := convertTrack(r)
	if got.ID != 7 || got.Title != "Ditto" || got.Artist != "NewJeans" || got.Album != "OMG" {
		t.Errorf("convertTrack() = %+v", got)
	}
	if got.CoverURL != "https://x.example.com/1000x1000bb.jpg" {
		t.Errorf("CoverURL = %q", got.CoverURL)
	}
	if !got.HasAudio() {
		t.Error("HasAudio() = false, want true")
	}
}

func TestConvertNilTrack(t *testing.T) {
	if convertTrack(nil) != nil {
		t.Error("Expected nil for nil input")
	}
}
