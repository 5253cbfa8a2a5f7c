package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL     = "https://musicbrainz.org/ws/2"
	defaultCoverArtURL = "https://coverartarchive.org"

	detailIncludes = "artists+artist-credits+artist-rels+work-rels+recording-rels+releases"

	// MusicBrainz allows one request per second for anonymous clients.
	requestInterval = time.Second
)

// Client handles communication with MusicBrainz and the Cover Art
// Archive.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	baseURL     string
	coverArtURL string
	rateLimiter *RateLimiter
}

// NewClient creates a new MusicBrainz API client.
func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		userAgent:   userAgent,
		baseURL:     defaultBaseURL,
		coverArtURL: defaultCoverArtURL,
		rateLimiter: NewRateLimiter(requestInterval),
	}
}

// SetBaseURLs overrides the API endpoints, for tests.
func (c *Client) SetBaseURLs(base, coverArt string) {
	c.baseURL = base
	c.coverArtURL = coverArt
}

func (c *Client) get(ctx context.Context, rawURL string, result interface{}) error {
	c.rateLimiter.Wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("MusicBrainz API error: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FindTrack searches for a recording by title and artist and, on a
// match, fetches its full detail including relation data and release
// cover art. Returns (nil, nil) when nothing matched.
func (c *Client) FindTrack(ctx context.Context, title, artist string) (*TrackInfo, error) {
	if title == "" || artist == "" {
		return nil, nil
	}

	query := url.QueryEscape(fmt.Sprintf("recording:%s AND artist:%s", title, artist))
	searchURL := fmt.Sprintf("%s/recording?query=%s&fmt=json", c.baseURL, query)

	var search searchResponse
	if err := c.get(ctx, searchURL, &search); err != nil {
		return nil, err
	}
	if len(search.Recordings) == 0 {
		return nil, nil
	}

	detailURL := fmt.Sprintf("%s/recording/%s?fmt=json&inc=%s",
		c.baseURL, search.Recordings[0].ID, detailIncludes)

	var detail RecordingDetail
	if err := c.get(ctx, detailURL, &detail); err != nil {
		return nil, err
	}

	coverArt := ""
	if len(detail.Releases) > 0 {
		// Cover art is best-effort; a missing release image never fails
		// the lookup.
		if img, err := c.releaseCoverArt(ctx, detail.Releases[0].ID); err == nil {
			coverArt = img
		}
	}

	return mapTrackInfo(&detail, coverArt), nil
}

func (c *Client) releaseCoverArt(ctx context.Context, releaseID string) (string, error) {
	var coverArt coverArtResponse
	if err := c.get(ctx, fmt.Sprintf("%s/release/%s", c.coverArtURL, releaseID), &coverArt); err != nil {
		return "", err
	}
	if len(coverArt.Images) == 0 {
		return "", fmt.Errorf("no cover art for release %s", releaseID)
	}
	return coverArt.Images[0].Image, nil
}
