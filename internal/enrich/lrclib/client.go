// Package lrclib provides a client for the lrclib.net synced-lyrics API.
package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://lrclib.net"

// Client handles communication with lrclib.net.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

// NewClient creates a new lrclib client.
func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		baseURL:    defaultBaseURL,
	}
}

// SetBaseURL overrides the API endpoint, for tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

type lyricsResponse struct {
	SyncedLyrics string `json:"syncedLyrics"`
}

// GetSynced looks up synced lyrics by album, artist and title. Returns
// an empty string when no lyrics are known.
func (c *Client) GetSynced(ctx context.Context, album, artist, title string) (string, error) {
	query := url.Values{}
	query.Set("artist_name", artist)
	query.Set("track_name", title)
	query.Set("album_name", album)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/get?%s", c.baseURL, query.Encode()), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lrclib API error: %d", resp.StatusCode)
	}

	var lyrics lyricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&lyrics); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return lyrics.SyncedLyrics, nil
}
