package scanner

import (
	"regexp"
	"strconv"
	"strings"
)

// FilenameTokens carries the structured hints decomposed from a release
// filename. Numeric fields always receive a value; ParseFailed is the
// only hard error signal and is raised when no title fragment could be
// isolated.
type FilenameTokens struct {
	NameEN string
	NameJP string
	NameZH string

	Season      int
	Episode     int
	Resolution  string
	Codec       string
	Subtitle    string
	ReleaseType string

	ParseFailed bool
}

// BestTitle returns the preferred lookup title, zh > jp > en.
func (t FilenameTokens) BestTitle() string {
	switch {
	case t.NameZH != "":
		return t.NameZH
	case t.NameJP != "":
		return t.NameJP
	default:
		return t.NameEN
	}
}

var (
	bracketSpanRe = regexp.MustCompile(`\[.*?\]|\(.*?\)`)
	extensionRe   = regexp.MustCompile(`\.\w+$`)
	titleSplitRe  = regexp.MustCompile(`\s*/\s*|\s*\|\s*`)
	hanRe         = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	kanaRe        = regexp.MustCompile(`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}]`)
	latinStartRe  = regexp.MustCompile(`^[A-Za-z]`)
	blockSplitRe  = regexp.MustCompile(`\[|\]`)

	episodeRe    = regexp.MustCompile(`^(?:第)?(\d{1,3})(?:話|集|$)`)
	seasonRe     = regexp.MustCompile(`(?i)^S(\d{1,2})`)
	resolutionRe = regexp.MustCompile(`^(?:480|720|1080|2160|4K)`)
	codecRe      = regexp.MustCompile(`AVC|H264|H265|AAC|FLAC|MP3|OGG|AC3`)
	subtitleRe   = regexp.MustCompile(`^(?:BIG5|GB|JP|EN|CH)`)
	typeRe       = regexp.MustCompile(`^(?:GEKIJOUBAN|MOVIE|OAD|OAV|ONA|OVA|SPECIALS?|TV)`)
)

// NormalizeName rewrites decorative fullwidth brackets to ASCII and
// underscores to spaces. Idempotent.
func NormalizeName(name string) string {
	name = strings.ReplaceAll(name, "【", "[")
	name = strings.ReplaceAll(name, "】", "]")
	name = strings.ReplaceAll(name, "_", " ")
	return name
}

// extractTitles strips bracketed spans and the extension from the whole
// filename, splits on separators, and classifies each fragment by its
// dominant script.
func extractTitles(name string, tokens *FilenameTokens) {
	name = NormalizeName(name)
	name = strings.TrimSpace(name)
	name = bracketSpanRe.ReplaceAllString(name, "")
	name = extensionRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	for _, fragment := range titleSplitRe.Split(name, -1) {
		switch {
		case hanRe.MatchString(fragment):
			tokens.NameZH = fragment
		case kanaRe.MatchString(fragment):
			tokens.NameJP = fragment
		case latinStartRe.MatchString(fragment):
			tokens.NameEN = fragment
		}
	}
}

// ParseFilename decomposes a release filename into title candidates and
// technical tags. Segments that match nothing are dropped; the parsing
// is intentionally lossy.
func ParseFilename(filename string) FilenameTokens {
	tokens := FilenameTokens{Season: 1}

	extractTitles(filename, &tokens)
	if tokens.NameEN == "" && tokens.NameJP == "" && tokens.NameZH == "" {
		tokens.ParseFailed = true
	}

	normalized := NormalizeName(filename)
	var blocks []string
	for _, block := range blockSplitRe.Split(normalized, -1) {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			blocks = append(blocks, trimmed)
		}
	}
	if len(blocks) == 0 {
		return tokens
	}

	// The first segment is the release-group tag; each remaining segment
	// contributes to at most one field, first match wins.
	for _, block := range blocks[1:] {
		upper := strings.ToUpper(block)

		if m := episodeRe.FindStringSubmatch(block); m != nil {
			tokens.Episode, _ = strconv.Atoi(m[1])
			continue
		}
		if m := seasonRe.FindStringSubmatch(block); m != nil {
			tokens.Season, _ = strconv.Atoi(m[1])
			continue
		}
		if resolutionRe.MatchString(upper) {
			tokens.Resolution = block
			continue
		}
		if codecs := codecRe.FindAllString(upper, -1); len(codecs) > 0 {
			tokens.Codec = strings.Join(codecs, "_")
			continue
		}
		if subtitleRe.MatchString(upper) {
			tokens.Subtitle = block
			continue
		}
		if typeRe.MatchString(upper) {
			tokens.ReleaseType = upper
			continue
		}
	}

	return tokens
}
