package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a slice of strings as a JSON text column so the same
// schema works on sqlite and postgres.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// MusicTrack is the durable record for one piece of music. Embedded tag
// fields always win over provider fields; provider-only fields (vocals,
// arrangers, mixers, lyrics) stay empty when no catalog matched.
type MusicTrack struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `gorm:"index" json:"title"`
	Duration    int    `json:"duration"`
	Artist      string `gorm:"index" json:"artist"`
	AlbumArtist string `gorm:"index" json:"album_artist"`
	Album       string `json:"album"`
	ReleaseYear int    `json:"release_year"`
	Composer    string `json:"composer"`
	Genre       string `json:"genre"`
	TrackNumber int    `json:"track_number"`
	DiscNumber  int    `json:"disc_number"`

	CoverArt  string     `json:"cover_art"`
	Lyrics    string     `json:"lyrics"`
	Vocals    StringList `gorm:"type:text" json:"vocals"`
	Arrangers StringList `gorm:"type:text" json:"arrangers"`
	Mixers    StringList `gorm:"type:text" json:"mixers"`

	AlbumID *uint           `gorm:"index" json:"album_id"`
	File    *MusicTrackFile `gorm:"foreignKey:TrackID" json:"file,omitempty"`
}

// MusicTrackFile describes the on-disk file backing a track. FilePath is
// unique across the library; the index is the race-safety backstop behind
// the scanner's dedupe snapshot.
type MusicTrackFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TrackID    uint   `gorm:"index" json:"track_id"`
	FileName   string `json:"file_name"`
	FilePath   string `gorm:"uniqueIndex" json:"file_path"`
	Codec      string `json:"codec"`
	Bitrate    int    `json:"bitrate"`
	SampleRate int    `json:"sample_rate"`
	FileSize   int64  `json:"file_size"`
	AudioType  string `json:"audio_type"`
}

// Album groups tracks by natural identity (title + album artist).
// TotalTracks is an eventually-consistent aggregate recomputed after each
// track commit, never incremented.
type Album struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `gorm:"index;uniqueIndex:idx_album_identity" json:"title"`
	AlbumArtist string `gorm:"index;uniqueIndex:idx_album_identity" json:"album_artist"`
	Genre       string `json:"genre"`
	ReleaseYear int    `json:"release_year"`
	CoverArt    string `json:"cover_art"`
	TotalTracks int    `json:"total_tracks"`

	Tracks []MusicTrack `json:"tracks,omitempty"`
}

// Video is the durable record for one video file, optionally an episode
// of a Series.
type Video struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title         string     `gorm:"index" json:"title"`
	Duration      int        `json:"duration"`
	Description   string     `json:"description"`
	Thumbnail     string     `json:"thumbnail"`
	Subtitle      string     `json:"subtitle"`
	AudioTracks   StringList `gorm:"type:text" json:"audio_tracks"`
	EpisodeNumber int        `json:"episode_number"`

	SeriesID *uint      `gorm:"index" json:"series_id"`
	Series   *Series    `json:"series,omitempty"`
	File     *VideoFile `json:"file,omitempty"`
}

// VideoFile describes the on-disk file backing a video.
type VideoFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VideoID   uint    `gorm:"index" json:"video_id"`
	FileName  string  `json:"file_name"`
	FilePath  string  `gorm:"uniqueIndex" json:"file_path"`
	Codec     string  `json:"codec"`
	Format    string  `json:"format"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frame_rate"`
	FileSize  int64   `json:"file_size"`
}

// Series is the parent entity shared by sibling episodes, looked up or
// created by title at commit time.
type Series struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title        string `gorm:"uniqueIndex" json:"title"`
	Description  string `json:"description"`
	SeasonNumber int    `json:"season_number"`
	ReleaseDate  string `json:"release_date"`
	CoverArt     string `json:"cover_art"`

	Tags     []SeriesTag `gorm:"many2many:series_tag_links" json:"tags,omitempty"`
	Episodes []Video     `json:"episodes,omitempty"`
}

// SeriesTag is a catalog-provided genre/tag label, deduplicated by name.
type SeriesTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"uniqueIndex" json:"name"`
}

// Document is the durable record for a document file (pdf, epub, mobi,
// txt).
type Document struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title     string `gorm:"index" json:"title"`
	FileName  string `json:"file_name"`
	FilePath  string `gorm:"uniqueIndex" json:"file_path"`
	Format    string `json:"format"`
	FileSize  int64  `json:"file_size"`
	Pages     int    `json:"pages"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
}
