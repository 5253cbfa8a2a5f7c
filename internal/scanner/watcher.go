package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/strata-media/strata/internal/media"
)

// Watcher feeds newly created files under the storage roots into
// single-file ingestion. The semaphore caps concurrent ingests at the
// ingestor's worker count so an event burst cannot exceed the scan
// pool's bound on in-flight provider calls.
type Watcher struct {
	ingestor *Ingestor
	log      hclog.Logger
	settle   time.Duration
	sem      chan struct{}
}

// NewWatcher creates a watcher over the given ingestor. The settle delay
// gives writers time to finish before the file is read.
func NewWatcher(ingestor *Ingestor, log hclog.Logger, settle time.Duration) *Watcher {
	return &Watcher{
		ingestor: ingestor,
		log:      log.Named("watcher"),
		settle:   settle,
		sem:      make(chan struct{}, ingestor.workers),
	}
}

// Watch blocks until the context is cancelled, ingesting files as they
// appear under the roots. New subdirectories are watched as they are
// created.
func (w *Watcher) Watch(ctx context.Context, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := addRecursive(watcher, root); err != nil {
			return err
		}
		w.log.Info("watching storage root", "root", root)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if err := addRecursive(watcher, event.Name); err != nil {
					w.log.Warn("failed to watch new directory", "dir", event.Name, "error", err)
				}
				continue
			}
			go w.ingestSettled(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// ingestSettled waits out the settle delay, then runs single-file
// ingestion. Duplicates and unsupported types are expected here and only
// logged at debug.
func (w *Watcher) ingestSettled(ctx context.Context, path string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.settle):
	}

	select {
	case <-ctx.Done():
		return
	case w.sem <- struct{}{}:
	}
	defer func() { <-w.sem }()

	err := w.ingestor.IngestFile(ctx, path)
	switch {
	case err == nil:
		w.log.Info("ingested new file", "file", path)
	case isSkip(err):
		w.log.Debug("skipped new file", "file", path, "error", err)
	default:
		w.log.Error("failed to ingest new file", "file", path, "error", err)
	}
}

func isSkip(err error) bool {
	return errors.Is(err, ErrDuplicateFile) || errors.Is(err, media.ErrUnsupportedType)
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
