package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(api, coverArt *httptest.Server) *Client {
	client := NewClient("test-agent", 5*time.Second)
	client.SetBaseURLs(api.URL, coverArt.URL)
	client.rateLimiter = NewRateLimiter(0)
	return client
}

func TestFindTrack(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		switch {
		case r.URL.Path == "/recording":
			assert.Contains(t, r.URL.Query().Get("query"), "recording:Butterfly")
			w.Write([]byte(`{"recordings":[{"id":"rec-1"}]}`))
		case r.URL.Path == "/recording/rec-1":
			assert.Contains(t, r.URL.Query().Get("inc"), "artist-rels")
			w.Write([]byte(`{
				"id": "rec-1",
				"title": "Butterfly",
				"length": 251000,
				"first-release-date": "2008-10-22",
				"artist-credit": [{"name": "Kana Nishino"}],
				"relations": [
					{"type": "vocal", "artist": {"name": "Kana Nishino", "sort-name": "Nishino, Kana", "type": "Person"}},
					{"type": "arranger", "artist": {"name": "Arr One"}},
					{"type": "mix", "artist": {"name": "Mix One"}},
					{"type": "karaoke", "recording": {"title": "Butterfly (karaoke)", "length": 250000, "video": false}}
				],
				"releases": [{"id": "rel-1", "title": "Album", "date": "2008-10-22"}]
			}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer api.Close()

	coverArt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/release/rel-1", r.URL.Path)
		w.Write([]byte(`{"images":[{"image":"https://img.example/front.jpg"}]}`))
	}))
	defer coverArt.Close()

	track, err := newTestClient(api, coverArt).FindTrack(context.Background(), "Butterfly", "Kana Nishino")
	require.NoError(t, err)
	require.NotNil(t, track)

	assert.Equal(t, "rec-1", track.ID)
	assert.Equal(t, "Butterfly", track.Title)
	assert.Equal(t, "Kana Nishino", track.Artist)
	assert.Equal(t, "2008-10-22", track.FirstReleaseDate)
	require.Len(t, track.Vocals, 1)
	assert.Equal(t, "Nishino, Kana", track.Vocals[0].SortName)
	assert.Equal(t, []string{"Arr One"}, track.Arrangers)
	assert.Equal(t, []string{"Mix One"}, track.Mixers)
	require.Len(t, track.Versions, 1)
	assert.Equal(t, "karaoke", track.Versions[0].Type)
	assert.Equal(t, "https://img.example/front.jpg", track.CoverArt)
}

func TestFindTrackNoMatch(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recordings":[]}`))
	}))
	defer api.Close()
	coverArt := httptest.NewServer(http.NotFoundHandler())
	defer coverArt.Close()

	track, err := newTestClient(api, coverArt).FindTrack(context.Background(), "Nothing", "Nobody")
	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestFindTrackEmptyQuery(t *testing.T) {
	client := NewClient("test-agent", time.Second)
	track, err := client.FindTrack(context.Background(), "", "Artist")
	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestFindTrackServerError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer api.Close()
	coverArt := httptest.NewServer(http.NotFoundHandler())
	defer coverArt.Close()

	_, err := newTestClient(api, coverArt).FindTrack(context.Background(), "Title", "Artist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFindTrackMissingCoverArt(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/recording/") {
			w.Write([]byte(`{"id":"rec-1","title":"Song","releases":[{"id":"rel-1"}]}`))
			return
		}
		w.Write([]byte(`{"recordings":[{"id":"rec-1"}]}`))
	}))
	defer api.Close()
	coverArt := httptest.NewServer(http.NotFoundHandler())
	defer coverArt.Close()

	track, err := newTestClient(api, coverArt).FindTrack(context.Background(), "Song", "Someone")
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Empty(t, track.CoverArt)
}

func TestFindTrackMalformedResponse(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recordings": [`))
	}))
	defer api.Close()
	coverArt := httptest.NewServer(http.NotFoundHandler())
	defer coverArt.Close()

	_, err := newTestClient(api, coverArt).FindTrack(context.Background(), "Title", "Artist")
	assert.Error(t, err)
}
