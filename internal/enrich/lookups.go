package enrich

import (
	"context"

	"github.com/strata-media/strata/internal/enrich/bangumi"
	"github.com/strata-media/strata/internal/enrich/tmdb"
)

// BangumiLookup adapts the anime catalog client to the chain interface.
type BangumiLookup struct {
	Client *bangumi.Client
}

// Name implements VideoLookup
func (l BangumiLookup) Name() string { return "bangumi" }

// Lookup implements VideoLookup. A hit marks the item as a series
// episode.
func (l BangumiLookup) Lookup(ctx context.Context, title string) (*VideoResult, error) {
	subject, err := l.Client.SearchSubject(ctx, title)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, nil
	}

	name := subject.NameCN
	if name == "" {
		name = subject.Name
	}
	result := &VideoResult{
		State:       StateSeries,
		Title:       name,
		AltTitle:    subject.Name,
		Overview:    subject.Summary,
		ReleaseDate: subject.Date,
		CoverURL:    subject.Images.Large,
	}
	for _, tag := range subject.Tags {
		result.Tags = append(result.Tags, tag.Name)
	}
	return result, nil
}

// TMDBLookup adapts the movie catalog client to the chain interface.
type TMDBLookup struct {
	Client *tmdb.Client
}

// Name implements VideoLookup
func (l TMDBLookup) Name() string { return "tmdb" }

// Lookup implements VideoLookup. A hit marks the item as a movie.
func (l TMDBLookup) Lookup(ctx context.Context, title string) (*VideoResult, error) {
	movie, err := l.Client.SearchMovie(ctx, title)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, nil
	}

	return &VideoResult{
		State:       StateMovie,
		Title:       movie.Title,
		AltTitle:    movie.OriginalTitle,
		Overview:    movie.Overview,
		ReleaseDate: movie.ReleaseDate,
		Tags:        movie.Genres,
		CoverURL:    movie.PosterURL,
	}, nil
}
