// Package enrich queries external catalogs in a fixed priority order and
// normalizes heterogeneous provider responses into common record shapes.
package enrich

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/strata-media/strata/internal/enrich/musicbrainz"
)

// VideoState is the terminal state of a video enrichment chain run.
type VideoState string

const (
	StateSeries VideoState = "series"
	StateMovie  VideoState = "movie"
	StateRaw    VideoState = "raw"
)

// VideoResult is the normalized output of a video catalog lookup.
type VideoResult struct {
	State       VideoState
	Provenance  string
	Title       string
	AltTitle    string
	Overview    string
	ReleaseDate string
	Tags        []string
	CoverURL    string
}

// VideoLookup is one capability-uniform catalog lookup: title in,
// optional normalized result out. Lookups are iterated in priority order
// until the first success.
type VideoLookup interface {
	Name() string
	Lookup(ctx context.Context, title string) (*VideoResult, error)
}

// VideoChain tries each configured lookup in order. Provider failure at
// any step degrades to "no match"; the chain never returns an error.
type VideoChain struct {
	lookups []VideoLookup
	log     hclog.Logger
}

// NewVideoChain builds a chain over the given lookups, highest priority
// first.
func NewVideoChain(log hclog.Logger, lookups ...VideoLookup) *VideoChain {
	return &VideoChain{lookups: lookups, log: log.Named("video-chain")}
}

// Resolve runs the chain for one title. A nil result means every lookup
// missed and the caller should fall back to the raw-file state.
func (c *VideoChain) Resolve(ctx context.Context, title string) *VideoResult {
	if title == "" {
		return nil
	}
	for _, lookup := range c.lookups {
		result, err := lookup.Lookup(ctx, title)
		if err != nil {
			c.log.Warn("catalog lookup failed", "provider", lookup.Name(), "title", title, "error", err)
			continue
		}
		if result == nil {
			c.log.Debug("no catalog match", "provider", lookup.Name(), "title", title)
			continue
		}
		result.Provenance = lookup.Name()
		return result
	}
	return nil
}

// recordingFinder is the recording-search capability of the music chain.
type recordingFinder interface {
	FindTrack(ctx context.Context, title, artist string) (*musicbrainz.TrackInfo, error)
}

// lyricsFinder is the synced-lyrics capability of the music chain.
type lyricsFinder interface {
	GetSynced(ctx context.Context, album, artist, title string) (string, error)
}

// MusicEnrichment holds the independently nullable results of the music
// chain.
type MusicEnrichment struct {
	Track  *musicbrainz.TrackInfo
	Lyrics string
}

// MusicChain queries the recording catalog and the lyrics provider. The
// two sub-queries are independent; a miss on one never blocks the other.
type MusicChain struct {
	recordings recordingFinder
	lyrics     lyricsFinder
	log        hclog.Logger
}

// NewMusicChain builds the music enrichment chain. Either capability may
// be nil to disable it.
func NewMusicChain(log hclog.Logger, recordings recordingFinder, lyrics lyricsFinder) *MusicChain {
	return &MusicChain{recordings: recordings, lyrics: lyrics, log: log.Named("music-chain")}
}

// Enrich looks up a track by its embedded tag fields.
func (c *MusicChain) Enrich(ctx context.Context, title, artist, album string) *MusicEnrichment {
	enrichment := &MusicEnrichment{}

	if c.recordings != nil {
		track, err := c.recordings.FindTrack(ctx, title, artist)
		if err != nil {
			c.log.Warn("recording lookup failed", "title", title, "artist", artist, "error", err)
		} else if track == nil {
			c.log.Debug("no recording match", "title", title, "artist", artist)
		} else {
			enrichment.Track = track
		}
	}

	if c.lyrics != nil {
		lyrics, err := c.lyrics.GetSynced(ctx, album, artist, title)
		if err != nil {
			c.log.Warn("lyrics lookup failed", "title", title, "artist", artist, "error", err)
		} else {
			enrichment.Lyrics = lyrics
		}
	}

	return enrichment
}
