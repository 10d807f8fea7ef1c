// Package guess extracts a display title and season number from media
// file names. It is best-effort: callers get a result or nil, never an
// error, and fall back to the raw file name when there is no guess.
package guess

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Result is a best-effort guess. Season is nil when no season marker
// was recognized.
type Result struct {
	Title  string
	Season *int
}

var (
	seasonEpisodeRe = regexp.MustCompile(`(?i)\bS(\d{1,2})\s?E\d{1,3}\b`)
	seasonWordRe    = regexp.MustCompile(`(?i)\bseason[ ]?(\d{1,2})\b`)
	yearRe          = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// releaseTokens mark the start of the technical tail of a scene-style
// name; everything from the first token onward is discarded.
var releaseTokens = []string{
	"2160p", "1080p", "720p", "480p", "4k", "uhd",
	"bluray", "blu-ray", "bdrip", "brrip", "remux",
	"web-dl", "webdl", "webrip", "web-rip", "hdtv", "dvdrip",
	"x264", "x265", "h264", "h265", "hevc", "avc", "xvid", "10bit",
	"aac", "ac3", "dts", "truehd", "atmos", "flac", "opus",
	"multi", "vostfr", "subbed", "dubbed",
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Guess derives a title and season from the final element of path.
// Returns nil when nothing usable can be extracted.
func Guess(path string) *Result {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); isMediaExt(ext) {
		name = strings.TrimSuffix(name, ext)
	}

	// Scene names separate words with dots or underscores.
	name = strings.ReplaceAll(name, ".", " ")
	name = strings.ReplaceAll(name, "_", " ")

	var season *int
	cut := len(name)
	matched := false

	if loc := seasonEpisodeRe.FindStringSubmatchIndex(name); loc != nil {
		matched = true
		if n, err := strconv.Atoi(name[loc[2]:loc[3]]); err == nil {
			season = &n
		}
		if loc[0] < cut {
			cut = loc[0]
		}
	} else if loc := seasonWordRe.FindStringSubmatchIndex(name); loc != nil {
		matched = true
		if n, err := strconv.Atoi(name[loc[2]:loc[3]]); err == nil {
			season = &n
		}
		if loc[0] < cut {
			cut = loc[0]
		}
	}

	if loc := yearRe.FindStringIndex(name); loc != nil && loc[0] > 0 {
		matched = true
		if loc[0] < cut {
			cut = loc[0]
		}
	}

	lower := strings.ToLower(name)
	for _, tok := range releaseTokens {
		if idx := strings.Index(lower, tok); idx >= 0 {
			matched = true
			if idx < cut {
				cut = idx
			}
		}
	}

	// A name with no recognizable markers carries no signal beyond the
	// file name itself; callers keep their own fallback in that case.
	if !matched {
		return nil
	}

	title := strings.Trim(name[:cut], " -([")
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return nil
	}

	return &Result{Title: titleCaser.String(title), Season: season}
}

func isMediaExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mkv", ".mp4", ".avi", ".mov":
		return true
	}
	return false
}
