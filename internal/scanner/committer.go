package scanner

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/strata-media/strata/internal/database"
	"github.com/strata-media/strata/internal/enrich"
	"github.com/strata-media/strata/internal/media"
	"github.com/strata-media/strata/internal/metadata"
	"gorm.io/gorm"
)

// Committer assembles final library records and performs the idempotent,
// transactional upsert into the storage layer. Each file's commit is one
// unit of work; on any failure the transaction rolls back in full so
// partial records are never visible.
type Committer struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewCommitter creates a committer over the storage layer.
func NewCommitter(db *gorm.DB, log hclog.Logger) *Committer {
	return &Committer{db: db, log: log.Named("committer")}
}

// CommitTrack writes a music track, its file row and its parent album.
// Embedded tag fields take precedence over provider fields; provider
// fields fill gaps.
func (c *Committer) CommitTrack(ctx context.Context, file *media.File, meta *metadata.MusicMetadata, enrichment *enrich.MusicEnrichment, coverID string) (*database.MusicTrack, error) {
	track := &database.MusicTrack{
		Title:       meta.Title,
		Duration:    meta.Duration,
		Artist:      meta.Artist,
		AlbumArtist: meta.AlbumArtist,
		Album:       meta.Album,
		ReleaseYear: meta.Year,
		Composer:    meta.Composer,
		Genre:       meta.Genre,
		TrackNumber: meta.TrackNumber,
		DiscNumber:  meta.DiscNumber,
		CoverArt:    coverID,
	}

	if enrichment != nil {
		if info := enrichment.Track; info != nil {
			if track.Artist == "" {
				track.Artist = info.Artist
			}
			if track.ReleaseYear == 0 {
				track.ReleaseYear = yearOf(info.FirstReleaseDate)
			}
			for _, vocal := range info.Vocals {
				track.Vocals = append(track.Vocals, vocal.Name)
			}
			track.Arrangers = info.Arrangers
			track.Mixers = info.Mixers
		}
		track.Lyrics = enrichment.Lyrics
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if meta.Album != "" {
			albumArtist := meta.AlbumArtist
			if albumArtist == "" {
				albumArtist = "Unknown Artist"
			}
			var album database.Album
			err := tx.Where(&database.Album{Title: meta.Album, AlbumArtist: albumArtist}).
				Attrs(database.Album{
					Genre:       meta.Genre,
					ReleaseYear: track.ReleaseYear,
					CoverArt:    coverID,
				}).
				FirstOrCreate(&album).Error
			if err != nil {
				return fmt.Errorf("failed to resolve album: %w", err)
			}
			track.AlbumID = &album.ID
		}

		if err := tx.Create(track).Error; err != nil {
			return fmt.Errorf("failed to create track: %w", err)
		}

		trackFile := &database.MusicTrackFile{
			TrackID:    track.ID,
			FileName:   file.Name,
			FilePath:   file.Path,
			Codec:      meta.Codec,
			Bitrate:    meta.Bitrate,
			SampleRate: meta.SampleRate,
			FileSize:   file.Size,
			AudioType:  meta.AudioType,
		}
		if err := tx.Create(trackFile).Error; err != nil {
			return fmt.Errorf("failed to create track file: %w", err)
		}
		track.File = trackFile
		return nil
	})
	if err != nil {
		return nil, err
	}

	if track.AlbumID != nil {
		c.syncAlbumTotals(ctx, *track.AlbumID)
	}
	return track, nil
}

// syncAlbumTotals recomputes an album's track count from the store. The
// aggregate is derived, not incremented, so redundant or concurrent runs
// converge on the same value.
func (c *Committer) syncAlbumTotals(ctx context.Context, albumID uint) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&database.MusicTrack{}).
		Where("album_id = ?", albumID).Count(&count).Error; err != nil {
		c.log.Warn("failed to count album tracks", "album_id", albumID, "error", err)
		return
	}
	if err := c.db.WithContext(ctx).Model(&database.Album{}).
		Where("id = ?", albumID).Update("total_tracks", count).Error; err != nil {
		c.log.Warn("failed to update album totals", "album_id", albumID, "error", err)
	}
}

// CommitVideo writes a video, its file row and, for a series hit, the
// looked-up-or-created parent series with its tags.
func (c *Committer) CommitVideo(ctx context.Context, file *media.File, meta *metadata.VideoMetadata, tokens FilenameTokens, outcome *enrich.VideoResult, coverID string) (*database.Video, error) {
	title := ""
	if outcome != nil {
		title = outcome.Title
	}
	if title == "" {
		title = tokens.BestTitle()
	}
	if title == "" {
		title = meta.Title
	}

	video := &database.Video{
		Title:         title,
		Duration:      meta.Duration,
		Thumbnail:     coverID,
		Subtitle:      tokens.Subtitle,
		AudioTracks:   meta.AudioTracks,
		EpisodeNumber: tokens.Episode,
	}
	if outcome != nil {
		video.Description = outcome.Overview
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if outcome != nil && outcome.State == enrich.StateSeries {
			var series database.Series
			err := tx.Where(&database.Series{Title: title}).
				Attrs(database.Series{
					Description:  outcome.Overview,
					SeasonNumber: tokens.Season,
					ReleaseDate:  outcome.ReleaseDate,
					CoverArt:     coverID,
				}).
				FirstOrCreate(&series).Error
			if err != nil {
				return fmt.Errorf("failed to resolve series: %w", err)
			}

			for _, name := range outcome.Tags {
				if name == "" {
					continue
				}
				var seriesTag database.SeriesTag
				if err := tx.Where(&database.SeriesTag{Name: name}).FirstOrCreate(&seriesTag).Error; err != nil {
					return fmt.Errorf("failed to resolve tag %q: %w", name, err)
				}
				if err := tx.Model(&series).Association("Tags").Append(&seriesTag); err != nil {
					return fmt.Errorf("failed to attach tag %q: %w", name, err)
				}
			}
			video.SeriesID = &series.ID
		}

		if err := tx.Create(video).Error; err != nil {
			return fmt.Errorf("failed to create video: %w", err)
		}

		videoFile := &database.VideoFile{
			VideoID:   video.ID,
			FileName:  file.Name,
			FilePath:  file.Path,
			Codec:     meta.Codec,
			Format:    meta.Format,
			Width:     meta.Width,
			Height:    meta.Height,
			FrameRate: meta.FrameRate,
			FileSize:  file.Size,
		}
		if err := tx.Create(videoFile).Error; err != nil {
			return fmt.Errorf("failed to create video file: %w", err)
		}
		video.File = videoFile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return video, nil
}

// CommitDocument writes a document record.
func (c *Committer) CommitDocument(ctx context.Context, file *media.File, meta *metadata.DocumentMetadata) (*database.Document, error) {
	doc := &database.Document{
		Title:     meta.Title,
		FileName:  file.Name,
		FilePath:  file.Path,
		Format:    meta.Format,
		FileSize:  file.Size,
		Pages:     meta.Pages,
		Author:    meta.Author,
		Publisher: meta.Publisher,
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// yearOf extracts the year from a yyyy-mm-dd provider date.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
