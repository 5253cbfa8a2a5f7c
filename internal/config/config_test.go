package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "./strata-data/strata.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.Scanner.Workers)
	assert.Equal(t, 10*time.Second, cfg.Providers.Timeout.Std())
	assert.Equal(t, "zh-TW", cfg.Providers.Language)
	assert.Empty(t, cfg.Providers.TMDBAPIKey)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  type: postgres
  host: db.internal
  port: 5433
library:
  data_dir: /srv/strata
  storage_roots:
    - /srv/media/music
    - /srv/media/video
scanner:
  workers: 8
  watch_settle: 500ms
providers:
  tmdb_api_key: key-from-file
  timeout: 5s
logging:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "/srv/strata", cfg.Library.DataDir)
	assert.Equal(t, []string{"/srv/media/music", "/srv/media/video"}, cfg.Library.StorageRoots)
	assert.Equal(t, 8, cfg.Scanner.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Scanner.WatchSettle.Std())
	assert.Equal(t, "key-from-file", cfg.Providers.TMDBAPIKey)
	assert.Equal(t, 5*time.Second, cfg.Providers.Timeout.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  timeout: soon\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("STRATA_DATA_DIR", "/env/data")
	t.Setenv("STRATA_TMDB_API_KEY", "env-key")
	t.Setenv("STRATA_LOG_LEVEL", "trace")
	t.Setenv("STRATA_SCAN_WORKERS", "2")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("POSTGRES_HOST", "pg.internal")
	t.Setenv("POSTGRES_PORT", "6432")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/data", cfg.Library.DataDir)
	assert.Equal(t, "env-key", cfg.Providers.TMDBAPIKey)
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, 2, cfg.Scanner.Workers)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
}

func TestWorkerFloor(t *testing.T) {
	t.Setenv("STRATA_SCAN_WORKERS", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Scanner.Workers)
}
