// Package bangumi provides a client for the bgm.tv anime catalog API.
package bangumi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.bgm.tv"

// Subject is a normalized Bangumi subject detail.
type Subject struct {
	ID            int      `json:"id"`
	Date          string   `json:"date"`
	Platform      string   `json:"platform"`
	Summary       string   `json:"summary"`
	Name          string   `json:"name"`
	NameCN        string   `json:"name_cn"`
	TotalEpisodes int      `json:"total_episodes"`
	Images        Images   `json:"images"`
	Tags          []Tag    `json:"tags"`
	MetaTags      []string `json:"meta_tags"`
}

// Images holds the subject image URLs by size.
type Images struct {
	Small  string `json:"small"`
	Grid   string `json:"grid"`
	Large  string `json:"large"`
	Medium string `json:"medium"`
	Common string `json:"common"`
}

// Tag is a community tag with its usage count.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type searchResponse struct {
	List []struct {
		ID int `json:"id"`
	} `json:"list"`
}

// Client handles communication with the Bangumi API.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

// NewClient creates a new Bangumi API client.
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

func (c *Client) get(ctx context.Context, rawURL string, result interface{}) error {
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
		return fmt.Errorf("Bangumi API error: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// SearchSubject searches anime subjects by title and fetches the full
// detail of the first hit. Returns (nil, nil) when nothing matched.
func (c *Client) SearchSubject(ctx context.Context, title string) (*Subject, error) {
	if title == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/search/subject/%s?type=2&responseGroup=small",
		c.baseURL, url.PathEscape(title))

	var search searchResponse
	if err := c.get(ctx, searchURL, &search); err != nil {
		return nil, err
	}
	if len(search.List) == 0 {
		return nil, nil
	}

	var subject Subject
	if err := c.get(ctx, fmt.Sprintf("%s/v0/subjects/%d", c.baseURL, search.List[0].ID), &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}
