// Package assets manages the content-addressed image store backing
// cover art and thumbnails.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const (
	// maxThumbnailDim bounds stored image dimensions.
	maxThumbnailDim = 512

	// maxDownloadBytes bounds remote cover downloads.
	maxDownloadBytes = 20 << 20

	webpQuality = 90
)

// Store writes images under generated identifiers inside a managed
// directory. The directory is append-only: identifiers are never reused,
// overwritten or deleted by this pipeline.
type Store struct {
	dir        string
	log        hclog.Logger
	httpClient *http.Client
}

// NewStore creates the managed image directory if absent and returns a
// store over it.
func NewStore(dataDir string, log hclog.Logger) (*Store, error) {
	dir := filepath.Join(dataDir, "images")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Store{
		dir:        dir,
		log:        log.Named("assets"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Dir returns the managed image directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the on-disk location of a stored identifier.
func (s *Store) Path(id string) string { return filepath.Join(s.dir, id) }

// SaveImage decodes raw image bytes, bounds them to the thumbnail
// dimension, re-encodes as WebP and stores the result under a fresh
// identifier.
func (s *Store) SaveImage(data []byte) (string, error) {
	img, err := decodeImage(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxThumbnailDim || bounds.Dy() > maxThumbnailDim {
		img = imaging.Fit(img, maxThumbnailDim, maxThumbnailDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	id := uuid.New().String() + ".webp"
	if err := os.WriteFile(filepath.Join(s.dir, id), buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return id, nil
}

// Download fetches a remote image and stores it.
func (s *Store) Download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read image body: %w", err)
	}
	return s.SaveImage(data)
}

// ExtractFrame decodes the first available frame of a video through
// ffmpeg and stores it as a placeholder thumbnail.
func (s *Store) ExtractFrame(ctx context.Context, videoPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", videoPath,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-")

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("ffmpeg frame extraction failed: %w", err)
	}
	return s.SaveImage(output)
}

// ResolveCover obtains a representative image for a record, trying
// embedded bytes, then a provider URL, then a decoded video frame. A
// failed strategy falls through to the next; an empty identifier means
// every strategy failed, which never aborts ingestion.
func (s *Store) ResolveCover(ctx context.Context, embedded []byte, remoteURL, videoPath string) string {
	if len(embedded) > 0 {
		if id, err := s.SaveImage(embedded); err == nil {
			return id
		} else {
			s.log.Warn("failed to store embedded cover", "error", err)
		}
	}
	if remoteURL != "" {
		if id, err := s.Download(ctx, remoteURL); err == nil {
			return id
		} else {
			s.log.Warn("failed to download cover", "url", remoteURL, "error", err)
		}
	}
	if videoPath != "" {
		if id, err := s.ExtractFrame(ctx, videoPath); err == nil {
			return id
		} else {
			s.log.Warn("failed to extract frame", "file", videoPath, "error", err)
		}
	}
	return ""
}

func decodeImage(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return webp.Decode(bytes.NewReader(data))
}
