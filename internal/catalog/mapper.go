package catalog

import (
	"regexp"

	"github.com/tessro/chorus/internal/core"
)

// artworkSize matches the size segment of a catalog artwork path, e.g. "/100x100bb.jpg".
var artworkSize = regexp.MustCompile(`/\d+x\d+[^/]*\.jpg`)

// HighResCover rewrites a low-resolution artwork URL to its 1000x1000 variant.
func HighResCover(artworkURL string) string {
	if artworkURL == "" {
		return ""
	}
	return artworkSize.ReplaceAllString(artworkURL, "/1000x1000bb.jpg")
}

// convertTrack converts a catalog result to a core track.
func convertTrack(r *Result) *core.Track {
	if r == nil {
		return nil
	}
	return &core.Track{
		ID:       r.TrackID,
		Title:    r.TrackName,
		Artist:   r.ArtistName,
		Album:    r.CollectionName,
		CoverURL: HighResCover(r.ArtworkURL100),
		AudioURL: r.PreviewURL,
	}
}

func convertTracks(results []Result) []core.Track {
	tracks := make([]core.Track, 0, len(results))
	for i := range results {
		tracks = append(tracks, *convertTrack(&results[i]))
	}
	return tracks
}
