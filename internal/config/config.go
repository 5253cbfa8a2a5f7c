package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML values like
// "10s" or "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the complete application configuration
type Config struct {
	Database  DatabaseConfig `yaml:"database"`
	Library   LibraryConfig  `yaml:"library"`
	Scanner   ScannerConfig  `yaml:"scanner"`
	Providers ProviderConfig `yaml:"providers"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// LibraryConfig describes where media lives and where managed data goes.
// DataDir hosts the sqlite database and the managed image store; the
// pipeline never writes anywhere else.
type LibraryConfig struct {
	DataDir      string   `yaml:"data_dir"`
	StorageRoots []string `yaml:"storage_roots"`
}

// ScannerConfig holds scan worker settings
type ScannerConfig struct {
	Workers     int      `yaml:"workers"`
	WatchSettle Duration `yaml:"watch_settle"`
}

// ProviderConfig holds external catalog settings. An empty TMDBAPIKey is
// a valid state that disables the movie-catalog branch of the video chain.
type ProviderConfig struct {
	TMDBAPIKey string   `yaml:"tmdb_api_key"`
	UserAgent  string   `yaml:"user_agent"`
	Language   string   `yaml:"language"`
	Timeout    Duration `yaml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration with sane defaults applied.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type: "sqlite",
			Host: "localhost",
			Port: 5432,
		},
		Library: LibraryConfig{
			DataDir: "./strata-data",
		},
		Scanner: ScannerConfig{
			Workers:     4,
			WatchSettle: Duration(2 * time.Second),
		},
		Providers: ProviderConfig{
			UserAgent: "strata/0.1 (https://github.com/strata-media/strata)",
			Language:  "zh-TW",
			Timeout:   Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given YAML file, then applies
// environment overrides. A missing file is not an error; defaults and
// environment alone are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvironment()

	if cfg.Database.Path == "" {
		cfg.Database.Path = cfg.Library.DataDir + "/strata.db"
	}
	if cfg.Scanner.Workers < 1 {
		cfg.Scanner.Workers = 1
	}
	return cfg, nil
}

func (c *Config) applyEnvironment() {
	if v := os.Getenv("STRATA_DATA_DIR"); v != "" {
		c.Library.DataDir = v
	}
	if v := os.Getenv("STRATA_TMDB_API_KEY"); v != "" {
		c.Providers.TMDBAPIKey = v
	}
	if v := os.Getenv("STRATA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DATABASE_TYPE"); v != "" {
		c.Database.Type = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		c.Database.Username = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		c.Database.Database = v
	}
	if v := os.Getenv("STRATA_SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scanner.Workers = n
		}
	}
}
