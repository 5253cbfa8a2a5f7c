// Package metadata extracts embedded container and tag metadata from
// media files without any network access.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// MusicMetadata holds the embedded tag fields and technical stream info
// for one audio file.
type MusicMetadata struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Composer    string
	Genre       string
	Year        int
	TrackNumber int
	DiscNumber  int

	Duration   int
	Bitrate    int
	SampleRate int
	AudioType  string
	Codec      string

	// Embedded cover art, when the container carries one.
	Picture     []byte
	PictureMIME string
}

var audioCodecByExt = map[string]string{
	".mp3":  "mp3",
	".flac": "flac",
	".aac":  "aac",
	".ogg":  "ogg",
	".opus": "opus",
	".wav":  "wav",
}

// ExtractMusic reads embedded tags and technical info from an audio
// file. The returned metadata is always usable; a non-nil error marks it
// as degraded (title from the filename, no tag fields) and must never
// abort a batch scan.
func ExtractMusic(path string) (*MusicMetadata, error) {
	meta := &MusicMetadata{
		Title:     stem(path),
		Codec:     audioCodecForExt(filepath.Ext(path)),
		AudioType: "mono",
	}

	file, err := os.Open(path)
	if err != nil {
		return meta, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		return meta, fmt.Errorf("failed to read tags: %w", err)
	}

	if title := tags.Title(); title != "" {
		meta.Title = title
	}
	meta.Artist = tags.Artist()
	meta.Album = tags.Album()
	meta.AlbumArtist = tags.AlbumArtist()
	if meta.AlbumArtist == "" {
		meta.AlbumArtist = meta.Artist
	}
	meta.Composer = tags.Composer()
	meta.Genre = tags.Genre()
	meta.Year = tags.Year()
	meta.TrackNumber, _ = tags.Track()
	meta.DiscNumber, _ = tags.Disc()

	if picture := tags.Picture(); picture != nil && len(picture.Data) > 0 {
		meta.Picture = picture.Data
		meta.PictureMIME = picture.MIMEType
	}

	// Stream-level technicals come from ffprobe; tag headers do not carry
	// them reliably across formats.
	if info, err := probeAudio(path); err == nil {
		meta.Duration = info.Duration
		meta.Bitrate = info.Bitrate
		meta.SampleRate = info.SampleRate
		if info.Channels > 1 {
			meta.AudioType = "stereo"
		}
		if info.Codec != "" {
			meta.Codec = info.Codec
		}
	}

	return meta, nil
}

func audioCodecForExt(ext string) string {
	if codec, ok := audioCodecByExt[strings.ToLower(ext)]; ok {
		return codec
	}
	return "unknown"
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
