// Package tmdb provides a client for The Movie Database API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"

	backdropBaseURL = "https://media.themoviedb.org/t/p/w1920_and_h800_multi_faces"
	posterBaseURL   = "https://image.tmdb.org/t/p/w600_and_h900_bestv2"
	profileBaseURL  = "https://image.tmdb.org/t/p/w185"

	maxCastMembers = 5
)

// CastMember is one credited actor.
type CastMember struct {
	Name       string
	Character  string
	ProfileURL string
}

// Movie is a normalized TMDb movie detail.
type Movie struct {
	ID            int
	Title         string
	OriginalTitle string
	ReleaseDate   string
	Overview      string
	VoteAverage   float64
	Genres        []string
	PosterURL     string
	BackdropURL   string
	Cast          []CastMember
}

type searchResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

type movieDetail struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	Overview      string  `json:"overview"`
	VoteAverage   float64 `json:"vote_average"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	Genres        []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type creditsResponse struct {
	Cast []struct {
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
	} `json:"cast"`
}

// Client handles communication with the TMDb API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	language   string
	baseURL    string
}

// NewClient creates a new TMDb API client. The key is a read access
// token sent as a bearer header.
func NewClient(apiKey, language string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		language:   language,
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
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDb API error: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// SearchMovie searches the movie catalog by title and fetches the full
// detail of the first hit, including its top-billed cast. Returns
// (nil, nil) when nothing matched.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Movie, error) {
	if query == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/search/movie?query=%s&language=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.language))

	var search searchResponse
	if err := c.get(ctx, searchURL, &search); err != nil {
		return nil, err
	}
	if len(search.Results) == 0 {
		return nil, nil
	}

	return c.movieDetails(ctx, search.Results[0].ID)
}

func (c *Client) movieDetails(ctx context.Context, movieID int) (*Movie, error) {
	var detail movieDetail
	detailURL := fmt.Sprintf("%s/movie/%d?language=%s", c.baseURL, movieID, url.QueryEscape(c.language))
	if err := c.get(ctx, detailURL, &detail); err != nil {
		return nil, err
	}

	movie := &Movie{
		ID:            detail.ID,
		Title:         detail.Title,
		OriginalTitle: detail.OriginalTitle,
		ReleaseDate:   detail.ReleaseDate,
		Overview:      detail.Overview,
		VoteAverage:   detail.VoteAverage,
	}
	for _, genre := range detail.Genres {
		movie.Genres = append(movie.Genres, genre.Name)
	}
	if detail.PosterPath != "" {
		movie.PosterURL = posterBaseURL + detail.PosterPath
	}
	if detail.BackdropPath != "" {
		movie.BackdropURL = backdropBaseURL + detail.BackdropPath
	}

	// Credits are best-effort; a failed credits call never fails the
	// lookup.
	var credits creditsResponse
	if err := c.get(ctx, fmt.Sprintf("%s/movie/%d/credits", c.baseURL, movieID), &credits); err == nil {
		for i, actor := range credits.Cast {
			if i >= maxCastMembers {
				break
			}
			member := CastMember{Name: actor.Name, Character: actor.Character}
			if actor.ProfilePath != "" {
				member.ProfileURL = profileBaseURL + actor.ProfilePath
			}
			movie.Cast = append(movie.Cast, member)
		}
	}

	return movie, nil
}
