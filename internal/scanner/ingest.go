// Package scanner turns filesystem paths into fully-described,
// deduplicated library records: classify, extract, tokenize, enrich,
// resolve cover art, commit.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
	"github.com/strata-media/strata/internal/assets"
	"github.com/strata-media/strata/internal/database"
	"github.com/strata-media/strata/internal/enrich"
	"github.com/strata-media/strata/internal/media"
	"github.com/strata-media/strata/internal/metadata"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateFile signals a source path that is already in the
	// library.
	ErrDuplicateFile = errors.New("file already ingested")

	// ErrNotDirectory signals an invalid directory scan argument.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotFile signals an invalid single-file ingest argument.
	ErrNotFile = errors.New("not a file")
)

// Ingestor runs the ingestion pipeline. Each file runs its whole
// pipeline on one worker; the pool size bounds in-flight provider calls.
type Ingestor struct {
	db        *gorm.DB
	log       hclog.Logger
	store     *assets.Store
	music     *enrich.MusicChain
	video     *enrich.VideoChain
	committer *Committer
	workers   int
}

// NewIngestor wires the pipeline. The music and video chains may be nil
// to disable enrichment; the store may be nil to disable cover art.
func NewIngestor(db *gorm.DB, log hclog.Logger, store *assets.Store, music *enrich.MusicChain, video *enrich.VideoChain, workers int) *Ingestor {
	if workers < 1 {
		workers = 1
	}
	return &Ingestor{
		db:        db,
		log:       log.Named("scanner"),
		store:     store,
		music:     music,
		video:     video,
		committer: NewCommitter(db, log),
		workers:   workers,
	}
}

// ScanSummary reports the outcome of one directory scan.
type ScanSummary struct {
	Scanned   int64
	Committed int64
	Skipped   int64
	Failed    int64
}

// canonicalPath resolves a path to its absolute, symlink-free form so
// dedupe comparisons do not miss on relative-path variation.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// snapshotKnownPaths loads the already-ingested source paths across all
// media kinds. The snapshot is advisory; the storage layer's uniqueness
// constraint is the race-safety backstop.
func (in *Ingestor) snapshotKnownPaths() (map[string]struct{}, error) {
	paths, err := database.ListKnownPaths(in.db)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		known[canonicalPath(path)] = struct{}{}
	}
	return known, nil
}

// IngestFile runs the full pipeline for a single file. A known path
// fails fast with ErrDuplicateFile.
func (in *Ingestor) IngestFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFile, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFile, path)
	}

	canonical := canonicalPath(path)
	known, err := in.snapshotKnownPaths()
	if err != nil {
		return err
	}
	if _, exists := known[canonical]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFile, canonical)
	}
	return in.ingest(ctx, canonical)
}

// ScanDirectory walks a directory tree and ingests every new supported
// file through a bounded worker pool. Per-file failures are logged and
// counted; they never abort the scan.
func (in *Ingestor) ScanDirectory(ctx context.Context, root string) (*ScanSummary, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	known, err := in.snapshotKnownPaths()
	if err != nil {
		return nil, err
	}

	var candidates []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			in.log.Warn("walk error", "path", path, "error", err)
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		candidates = append(candidates, canonicalPath(path))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	var (
		scanned   atomic.Int64
		committed atomic.Int64
		skipped   atomic.Int64
		failed    atomic.Int64
	)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < in.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				scanned.Add(1)
				if _, exists := known[path]; exists {
					in.log.Debug("file already ingested", "file", path)
					skipped.Add(1)
					continue
				}
				err := in.ingest(ctx, path)
				switch {
				case err == nil:
					committed.Add(1)
				case errors.Is(err, media.ErrUnsupportedType):
					skipped.Add(1)
				default:
					failed.Add(1)
					in.log.Error("failed to ingest file", "file", path, "error", err)
				}
			}
		}()
	}

feed:
	for _, path := range candidates {
		select {
		case <-ctx.Done():
			// A scan stops between files, never mid-file.
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	summary := &ScanSummary{
		Scanned:   scanned.Load(),
		Committed: committed.Load(),
		Skipped:   skipped.Load(),
		Failed:    failed.Load(),
	}
	in.log.Info("scan complete", "root", root,
		"scanned", summary.Scanned, "committed", summary.Committed,
		"skipped", summary.Skipped, "failed", summary.Failed)
	return summary, ctx.Err()
}

// ingest runs classify → extract → tokenize → enrich → resolve cover →
// commit for one canonicalized path.
func (in *Ingestor) ingest(ctx context.Context, path string) error {
	file, err := media.Stat(path)
	if err != nil {
		return err
	}

	switch file.Kind {
	case media.KindMusic:
		return in.ingestMusic(ctx, file)
	case media.KindVideo:
		return in.ingestVideo(ctx, file)
	case media.KindDocument:
		return in.ingestDocument(ctx, file)
	}
	return fmt.Errorf("%w: %s", media.ErrUnsupportedType, path)
}

func (in *Ingestor) ingestMusic(ctx context.Context, file *media.File) error {
	meta, err := metadata.ExtractMusic(file.Path)
	if err != nil {
		in.log.Warn("music decode degraded", "file", file.Path, "error", err)
	}

	var enrichment *enrich.MusicEnrichment
	if in.music != nil && meta.Title != "" && meta.Artist != "" {
		enrichment = in.music.Enrich(ctx, meta.Title, meta.Artist, meta.Album)
	}

	coverURL := ""
	if enrichment != nil && enrichment.Track != nil {
		coverURL = enrichment.Track.CoverArt
	}
	coverID := ""
	if in.store != nil {
		coverID = in.store.ResolveCover(ctx, meta.Picture, coverURL, "")
	}

	_, err = in.committer.CommitTrack(ctx, file, meta, enrichment, coverID)
	return err
}

func (in *Ingestor) ingestVideo(ctx context.Context, file *media.File) error {
	meta, err := metadata.ExtractVideo(file.Path)
	if err != nil {
		in.log.Warn("video decode degraded", "file", file.Path, "error", err)
	}

	tokens := ParseFilename(file.Name)

	var outcome *enrich.VideoResult
	if !tokens.ParseFailed && in.video != nil {
		outcome = in.video.Resolve(ctx, tokens.BestTitle())
	}

	coverURL := ""
	if outcome != nil {
		coverURL = outcome.CoverURL
	}
	coverID := ""
	if in.store != nil {
		coverID = in.store.ResolveCover(ctx, nil, coverURL, file.Path)
	}

	_, err = in.committer.CommitVideo(ctx, file, meta, tokens, outcome, coverID)
	return err
}

func (in *Ingestor) ingestDocument(ctx context.Context, file *media.File) error {
	meta, err := metadata.ExtractDocument(file.Path)
	if err != nil {
		in.log.Warn("document decode degraded", "file", file.Path, "error", err)
	}

	_, err = in.committer.CommitDocument(ctx, file, meta)
	return err
}
