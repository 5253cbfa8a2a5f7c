package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/strata-media/strata/internal/assets"
	"github.com/strata-media/strata/internal/config"
	"github.com/strata-media/strata/internal/database"
	"github.com/strata-media/strata/internal/enrich"
	"github.com/strata-media/strata/internal/enrich/bangumi"
	"github.com/strata-media/strata/internal/enrich/lrclib"
	"github.com/strata-media/strata/internal/enrich/musicbrainz"
	"github.com/strata-media/strata/internal/enrich/tmdb"
	"github.com/strata-media/strata/internal/logger"
	"github.com/strata-media/strata/internal/scanner"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		scanDir    = flag.String("scan", "", "scan a directory tree and exit")
		ingestFile = flag.String("file", "", "ingest a single file and exit")
		watch      = flag.Bool("watch", false, "watch the storage roots for new files")
	)
	flag.Parse()

	if err := run(*configPath, *scanDir, *ingestFile, *watch); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, scanDir, ingestFile string, watch bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level)

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		return err
	}

	store, err := assets.NewStore(cfg.Library.DataDir, log)
	if err != nil {
		return err
	}

	timeout := cfg.Providers.Timeout.Std()
	musicChain := enrich.NewMusicChain(log,
		musicbrainz.NewClient(cfg.Providers.UserAgent, timeout),
		lrclib.NewClient(cfg.Providers.UserAgent, timeout),
	)

	lookups := []enrich.VideoLookup{
		enrich.BangumiLookup{Client: bangumi.NewClient(cfg.Providers.UserAgent, timeout)},
	}
	if cfg.Providers.TMDBAPIKey != "" {
		lookups = append(lookups, enrich.TMDBLookup{
			Client: tmdb.NewClient(cfg.Providers.TMDBAPIKey, cfg.Providers.Language, timeout),
		})
	} else {
		log.Info("no TMDB API key configured, movie lookups disabled")
	}
	videoChain := enrich.NewVideoChain(log, lookups...)

	ingestor := scanner.NewIngestor(db, log, store, musicChain, videoChain, cfg.Scanner.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case ingestFile != "":
		return ingestor.IngestFile(ctx, ingestFile)
	case scanDir != "":
		_, err := ingestor.ScanDirectory(ctx, scanDir)
		return err
	case watch:
		roots := cfg.Library.StorageRoots
		if len(roots) == 0 {
			return fmt.Errorf("no storage roots configured")
		}
		for _, root := range roots {
			if _, err := ingestor.ScanDirectory(ctx, root); err != nil {
				return err
			}
		}
		watcher := scanner.NewWatcher(ingestor, log, cfg.Scanner.WatchSettle.Std())
		return watcher.Watch(ctx, roots)
	default:
		flag.Usage()
		return fmt.Errorf("one of -scan, -file or -watch is required")
	}
}
