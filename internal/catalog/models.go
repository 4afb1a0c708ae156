package catalog

// Response is the envelope returned by both the search and lookup endpoints.
type Response struct {
	ResultCount int      `json:"resultCount"`
	Results     []Result `json:"results"`
}

// Result is a single catalog item. Only song fields are decoded.
type Result struct {
	WrapperType      string `json:"wrapperType"`
	Kind             string `json:"kind"`
	TrackID          int64  `json:"trackId"`
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	ArtworkURL100    string `json:"artworkUrl100"`
	PreviewURL       string `json:"previewUrl"`
	TrackTimeMillis  int64  `json:"trackTimeMillis"`
	PrimaryGenreName string `json:"primaryGenreName"`
	Country          string `json:"country"`
}
