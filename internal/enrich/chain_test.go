package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/strata-media/strata/internal/enrich/musicbrainz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	name   string
	result *VideoResult
	err    error
	calls  int
}

func (f *fakeLookup) Name() string { return f.name }

func (f *fakeLookup) Lookup(ctx context.Context, title string) (*VideoResult, error) {
	f.calls++
	return f.result, f.err
}

func TestVideoChainFirstHitWins(t *testing.T) {
	first := &fakeLookup{name: "first", result: &VideoResult{State: StateSeries, Title: "Hit"}}
	second := &fakeLookup{name: "second", result: &VideoResult{State: StateMovie, Title: "Never"}}
	chain := NewVideoChain(hclog.NewNullLogger(), first, second)

	result := chain.Resolve(context.Background(), "some title")
	require.NotNil(t, result)
	assert.Equal(t, "Hit", result.Title)
	assert.Equal(t, "first", result.Provenance)
	assert.Equal(t, 0, second.calls)
}

func TestVideoChainFallsThroughOnMiss(t *testing.T) {
	first := &fakeLookup{name: "first"}
	second := &fakeLookup{name: "second", result: &VideoResult{State: StateMovie, Title: "Later"}}
	chain := NewVideoChain(hclog.NewNullLogger(), first, second)

	result := chain.Resolve(context.Background(), "some title")
	require.NotNil(t, result)
	assert.Equal(t, "Later", result.Title)
	assert.Equal(t, "second", result.Provenance)
	assert.Equal(t, 1, first.calls)
}

func TestVideoChainFallsThroughOnError(t *testing.T) {
	first := &fakeLookup{name: "first", err: errors.New("provider down")}
	second := &fakeLookup{name: "second", result: &VideoResult{State: StateSeries, Title: "Recovered"}}
	chain := NewVideoChain(hclog.NewNullLogger(), first, second)

	result := chain.Resolve(context.Background(), "some title")
	require.NotNil(t, result)
	assert.Equal(t, "Recovered", result.Title)
}

func TestVideoChainAllMiss(t *testing.T) {
	first := &fakeLookup{name: "first"}
	second := &fakeLookup{name: "second", err: errors.New("down")}
	chain := NewVideoChain(hclog.NewNullLogger(), first, second)

	assert.Nil(t, chain.Resolve(context.Background(), "some title"))
}

func TestVideoChainEmptyTitle(t *testing.T) {
	first := &fakeLookup{name: "first", result: &VideoResult{Title: "Hit"}}
	chain := NewVideoChain(hclog.NewNullLogger(), first)

	assert.Nil(t, chain.Resolve(context.Background(), ""))
	assert.Equal(t, 0, first.calls)
}

type fakeRecordings struct {
	track *musicbrainz.TrackInfo
	err   error
}

func (f fakeRecordings) FindTrack(ctx context.Context, title, artist string) (*musicbrainz.TrackInfo, error) {
	return f.track, f.err
}

type fakeLyrics struct {
	lyrics string
	err    error
}

func (f fakeLyrics) GetSynced(ctx context.Context, album, artist, title string) (string, error) {
	return f.lyrics, f.err
}

func TestMusicChainBothHit(t *testing.T) {
	chain := NewMusicChain(hclog.NewNullLogger(),
		fakeRecordings{track: &musicbrainz.TrackInfo{Title: "Song", Artist: "Singer"}},
		fakeLyrics{lyrics: "[00:01.00] hello"},
	)

	enrichment := chain.Enrich(context.Background(), "Song", "Singer", "Album")
	require.NotNil(t, enrichment.Track)
	assert.Equal(t, "Singer", enrichment.Track.Artist)
	assert.Equal(t, "[00:01.00] hello", enrichment.Lyrics)
}

func TestMusicChainSubQueriesIndependent(t *testing.T) {
	// A recording miss must not block the lyrics lookup, and vice versa.
	chain := NewMusicChain(hclog.NewNullLogger(),
		fakeRecordings{err: errors.New("catalog down")},
		fakeLyrics{lyrics: "line"},
	)
	enrichment := chain.Enrich(context.Background(), "Song", "Singer", "Album")
	assert.Nil(t, enrichment.Track)
	assert.Equal(t, "line", enrichment.Lyrics)

	chain = NewMusicChain(hclog.NewNullLogger(),
		fakeRecordings{track: &musicbrainz.TrackInfo{Title: "Song"}},
		fakeLyrics{err: errors.New("lyrics down")},
	)
	enrichment = chain.Enrich(context.Background(), "Song", "Singer", "Album")
	require.NotNil(t, enrichment.Track)
	assert.Empty(t, enrichment.Lyrics)
}

func TestMusicChainAllMiss(t *testing.T) {
	chain := NewMusicChain(hclog.NewNullLogger(), fakeRecordings{}, fakeLyrics{})

	enrichment := chain.Enrich(context.Background(), "Song", "Singer", "Album")
	require.NotNil(t, enrichment)
	assert.Nil(t, enrichment.Track)
	assert.Empty(t, enrichment.Lyrics)
}

func TestMusicChainNilCapabilities(t *testing.T) {
	chain := NewMusicChain(hclog.NewNullLogger(), nil, nil)

	enrichment := chain.Enrich(context.Background(), "Song", "Singer", "Album")
	require.NotNil(t, enrichment)
	assert.Nil(t, enrichment.Track)
}
