// Package media classifies filesystem entries into library kinds by
// extension.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind is the media kind of a filesystem entry.
type Kind string

const (
	KindMusic    Kind = "music"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
	KindUnknown  Kind = "unknown"
)

// ErrUnsupportedType signals an extension outside every known set.
// Callers treat it as a skip, not an abort.
var ErrUnsupportedType = errors.New("unsupported file type")

// MusicExtensions defines supported music file formats
var MusicExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".aac":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
}

// VideoExtensions defines supported video file formats
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".flv":  true,
	".mov":  true,
	".wmv":  true,
}

// DocumentExtensions defines supported document file formats
var DocumentExtensions = map[string]bool{
	".pdf":  true,
	".epub": true,
	".mobi": true,
	".txt":  true,
}

// Classify maps a path to a media kind by extension.
func Classify(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case MusicExtensions[ext]:
		return KindMusic, nil
	case VideoExtensions[ext]:
		return KindVideo, nil
	case DocumentExtensions[ext]:
		return KindDocument, nil
	}
	return KindUnknown, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
}

// File is an immutable description of a path on disk, produced once per
// scan pass.
type File struct {
	Path       string
	Name       string
	Size       int64
	Kind       Kind
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Stat classifies a path and captures its filesystem attributes. File
// creation time is not portable, so modification time stands in for both
// timestamps.
func Stat(path string) (*File, error) {
	kind, err := Classify(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedType, path)
	}

	return &File{
		Path:       path,
		Name:       info.Name(),
		Size:       info.Size(),
		Kind:       kind,
		CreatedAt:  info.ModTime(),
		ModifiedAt: info.ModTime(),
	}, nil
}
