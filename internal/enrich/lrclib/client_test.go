package lrclib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSynced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "YOASOBI", query.Get("artist_name"))
		assert.Equal(t, "Idol", query.Get("track_name"))
		assert.Equal(t, "THE BOOK 3", query.Get("album_name"))
		w.Write([]byte(`{"syncedLyrics":"[00:01.00] line one\n[00:05.20] line two"}`))
	}))
	defer server.Close()

	client := NewClient("test-agent", 5*time.Second)
	client.SetBaseURL(server.URL)

	lyrics, err := client.GetSynced(context.Background(), "THE BOOK 3", "YOASOBI", "Idol")
	require.NoError(t, err)
	assert.Contains(t, lyrics, "[00:01.00]")
}

func TestGetSyncedNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient("test-agent", time.Second)
	client.SetBaseURL(server.URL)

	lyrics, err := client.GetSynced(context.Background(), "Album", "Artist", "Title")
	require.NoError(t, err)
	assert.Empty(t, lyrics)
}

func TestGetSyncedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-agent", time.Second)
	client.SetBaseURL(server.URL)

	_, err := client.GetSynced(context.Background(), "Album", "Artist", "Title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
