package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/strata-media/strata/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database and migrates the library
// schema.
func Open(cfg *config.DatabaseConfig, log hclog.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database initialized", "type", cfg.Type)
	return db, nil
}

// Migrate creates or updates the library schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&MusicTrack{},
		&MusicTrackFile{},
		&Album{},
		&Video{},
		&VideoFile{},
		&Series{},
		&SeriesTag{},
		&Document{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// ListKnownPaths returns the union of source paths across every
// file-backed entity type. The scanner uses the result as its dedupe
// snapshot.
func ListKnownPaths(db *gorm.DB) ([]string, error) {
	var paths []string

	var musicPaths []string
	if err := db.Model(&MusicTrackFile{}).Pluck("file_path", &musicPaths).Error; err != nil {
		return nil, fmt.Errorf("failed to list music file paths: %w", err)
	}
	paths = append(paths, musicPaths...)

	var videoPaths []string
	if err := db.Model(&VideoFile{}).Pluck("file_path", &videoPaths).Error; err != nil {
		return nil, fmt.Errorf("failed to list video file paths: %w", err)
	}
	paths = append(paths, videoPaths...)

	var documentPaths []string
	if err := db.Model(&Document{}).Pluck("file_path", &documentPaths).Error; err != nil {
		return nil, fmt.Errorf("failed to list document paths: %w", err)
	}
	paths = append(paths, documentPaths...)

	return paths, nil
}
