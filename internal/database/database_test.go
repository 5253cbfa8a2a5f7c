package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestListKnownPaths(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&MusicTrackFile{TrackID: 1, FilePath: "/music/a.mp3"}).Error)
	require.NoError(t, db.Create(&VideoFile{VideoID: 1, FilePath: "/videos/b.mkv"}).Error)
	require.NoError(t, db.Create(&Document{Title: "c", FilePath: "/books/c.epub"}).Error)

	paths, err := ListKnownPaths(db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/music/a.mp3", "/videos/b.mkv", "/books/c.epub"}, paths)
}

func TestListKnownPathsEmpty(t *testing.T) {
	db := newTestDB(t)

	paths, err := ListKnownPaths(db)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStringListRoundTrip(t *testing.T) {
	db := newTestDB(t)

	track := &MusicTrack{
		Title:  "Song",
		Vocals: StringList{"Voice A", "Voice B"},
	}
	require.NoError(t, db.Create(track).Error)

	var loaded MusicTrack
	require.NoError(t, db.First(&loaded, track.ID).Error)
	assert.Equal(t, StringList{"Voice A", "Voice B"}, loaded.Vocals)
}

func TestStringListEmpty(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&MusicTrack{Title: "Bare"}).Error)

	var loaded MusicTrack
	require.NoError(t, db.Where("title = ?", "Bare").First(&loaded).Error)
	assert.Empty(t, loaded.Vocals)
}

func TestDuplicateFilePathRejected(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&Document{Title: "one", FilePath: "/books/same.pdf"}).Error)
	err := db.Create(&Document{Title: "two", FilePath: "/books/same.pdf"}).Error
	assert.Error(t, err)
}
