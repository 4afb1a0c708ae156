package core

import "strconv"

// Track represents a playable catalog track.
type Track struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	CoverURL string `json:"cover"`
	AudioURL string `json:"audio,omitempty"` // Empty when the catalog has no preview
}

// HasAudio returns true if the track carries a playable preview.
func (t *Track) HasAudio() bool {
	return t != nil && t.AudioURL != ""
}

// IDString returns the catalog id as a decimal string.
func (t *Track) IDString() string {
	if t == nil {
		return ""
	}
	return strconv.FormatInt(t.ID, 10)
}
