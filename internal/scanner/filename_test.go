package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "[DMG] Title 01.mp4", NormalizeName("【DMG】Title_01.mp4"))

	// Normalization is idempotent.
	once := NormalizeName("【Group】Some_Name.mkv")
	assert.Equal(t, once, NormalizeName(once))
}

func TestParseFilenameFull(t *testing.T) {
	tokens := ParseFilename("[DHR&DMG] Mondaiji / 問題児たち [01][BIG5][720P][AVC_AAC].mp4")

	assert.False(t, tokens.ParseFailed)
	assert.Equal(t, "Mondaiji", tokens.NameEN)
	assert.Equal(t, "問題児たち", tokens.NameZH)
	assert.Equal(t, 1, tokens.Episode)
	assert.Equal(t, 1, tokens.Season)
	assert.Equal(t, "720P", tokens.Resolution)
	assert.Equal(t, "AVC_AAC", tokens.Codec)
	assert.Equal(t, "BIG5", tokens.Subtitle)
}

func TestParseFilenameJapaneseTitle(t *testing.T) {
	tokens := ParseFilename("[Group] SAO / ソードアート・オンライン [12][1080P][H265].mkv")

	assert.False(t, tokens.ParseFailed)
	assert.Equal(t, "SAO", tokens.NameEN)
	assert.Equal(t, "ソードアート・オンライン", tokens.NameJP)
	assert.Equal(t, 12, tokens.Episode)
	assert.Equal(t, "1080P", tokens.Resolution)
	assert.Equal(t, "H265", tokens.Codec)
	assert.Equal(t, "ソードアート・オンライン", tokens.BestTitle())
}

func TestParseFilenameCJKEpisodeMarker(t *testing.T) {
	tokens := ParseFilename("[Sub] タイトル [第03話][GB][480P].mp4")

	assert.Equal(t, 3, tokens.Episode)
	assert.Equal(t, "GB", tokens.Subtitle)
	assert.Equal(t, "480P", tokens.Resolution)
}

func TestParseFilenameSeasonAndType(t *testing.T) {
	tokens := ParseFilename("[Group] Show Name [S2][05][OVA][1080P].mkv")

	assert.Equal(t, 2, tokens.Season)
	assert.Equal(t, 5, tokens.Episode)
	assert.Equal(t, "OVA", tokens.ReleaseType)
}

func TestParseFilenameDefaults(t *testing.T) {
	tokens := ParseFilename("[Group] Plain Title.mkv")

	assert.False(t, tokens.ParseFailed)
	assert.Equal(t, 1, tokens.Season)
	assert.Equal(t, 0, tokens.Episode)
	assert.Empty(t, tokens.Resolution)
	assert.Empty(t, tokens.Codec)
}

func TestParseFilenameNoTitle(t *testing.T) {
	tokens := ParseFilename("[Group][01][720P][AVC].mp4")

	assert.True(t, tokens.ParseFailed)
	assert.Empty(t, tokens.BestTitle())
	// Technical tags are still extracted from a title-less name.
	assert.Equal(t, 1, tokens.Episode)
	assert.Equal(t, "720P", tokens.Resolution)
}

func TestBestTitlePreference(t *testing.T) {
	assert.Equal(t, "中文", FilenameTokens{NameEN: "en", NameJP: "かな", NameZH: "中文"}.BestTitle())
	assert.Equal(t, "かな", FilenameTokens{NameEN: "en", NameJP: "かな"}.BestTitle())
	assert.Equal(t, "en", FilenameTokens{NameEN: "en"}.BestTitle())
}
