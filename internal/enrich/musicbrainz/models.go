// Package musicbrainz provides a client for the MusicBrainz recording
// API and the Cover Art Archive.
package musicbrainz

// searchResponse represents a MusicBrainz recording search response
type searchResponse struct {
	Recordings []struct {
		ID string `json:"id"`
	} `json:"recordings"`
}

// RecordingDetail represents a MusicBrainz recording with relation data
type RecordingDetail struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Length           int            `json:"length"`
	FirstReleaseDate string         `json:"first-release-date"`
	ArtistCredit     []ArtistCredit `json:"artist-credit"`
	Relations        []Relation     `json:"relations"`
	Releases         []Release      `json:"releases"`
}

// ArtistCredit represents a MusicBrainz artist credit
type ArtistCredit struct {
	Name string `json:"name"`
}

// Relation represents an artist or recording relation on a recording
type Relation struct {
	Type      string             `json:"type"`
	Artist    *RelationArtist    `json:"artist,omitempty"`
	Recording *RelationRecording `json:"recording,omitempty"`
}

// RelationArtist is the artist half of a relation
type RelationArtist struct {
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
	Type     string `json:"type"`
}

// RelationRecording is the recording half of a relation
type RelationRecording struct {
	Title  string `json:"title"`
	Length int    `json:"length"`
	Video  bool   `json:"video"`
}

// Release represents a MusicBrainz release attached to a recording
type Release struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// coverArtResponse represents a Cover Art Archive response
type coverArtResponse struct {
	Images []struct {
		Image string `json:"image"`
	} `json:"images"`
}

// ArtistInfo describes a credited performer on a recording
type ArtistInfo struct {
	Name     string
	SortName string
	Type     string
}

// Version describes an alternate version of a recording (edit, karaoke,
// music video)
type Version struct {
	Title  string
	Length int
	Type   string
	Video  bool
}

// TrackInfo is the normalized result of a recording lookup
type TrackInfo struct {
	ID               string
	Title            string
	Length           int
	FirstReleaseDate string
	Artist           string
	Vocals           []ArtistInfo
	Arrangers        []string
	Mixers           []string
	Versions         []Version
	CoverArt         string
}
