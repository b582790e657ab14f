// Package naming extracts structured fields from release filenames.
//
// Extraction is deterministic: the same input always yields the same Guess.
// When a field cannot be found it is left as a zero value rather than
// reported as an error; only empty input fails.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearRegex      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	yearParenRegex = regexp.MustCompile(`\((\d{4})\)`)
	episodeSERegex = regexp.MustCompile(`[Ss](\d{1,2})[Ee](\d{1,3})`)
	episodeXRegex  = regexp.MustCompile(`\b(\d{1,2})x(\d{1,3})\b`)

	resolutionRegex = regexp.MustCompile(`(?i)\b(\d{3,4})[pi]\b`)
	fourKRegex      = regexp.MustCompile(`(?i)\b(4K|UHD)\b`)

	trailingGroupRegex = regexp.MustCompile(`-[A-Za-z0-9]+$`)

	releasePatterns []*regexp.Regexp
)

// sourceRules and codecRules are evaluated in order; the first match wins.
// More specific markers come first so e.g. WEB-DL is not consumed as WEB.
var sourceRules = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`(?i)\bREMUX\b`), "REMUX"},
	{regexp.MustCompile(`(?i)\bBDRip\b`), "BDRip"},
	{regexp.MustCompile(`(?i)\b(BluRay|Blu-ray)\b`), "BluRay"},
	{regexp.MustCompile(`(?i)\b(WEB-DL|WEBDL)\b`), "WEB-DL"},
	{regexp.MustCompile(`(?i)\bWEBRip\b`), "WEBRip"},
	{regexp.MustCompile(`(?i)\bWEB\b`), "WEB"},
	{regexp.MustCompile(`(?i)\bHDTV\b`), "HDTV"},
	{regexp.MustCompile(`(?i)\bDVDRip\b`), "DVDRip"},
	{regexp.MustCompile(`(?i)\bDVD\b`), "DVD"},
	{regexp.MustCompile(`(?i)\bCAM\b`), "CAM"},
}

var codecRules = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`(?i)\bx265\b`), "x265"},
	{regexp.MustCompile(`(?i)\bx264\b`), "x264"},
	{regexp.MustCompile(`(?i)\bHEVC\b`), "HEVC"},
	{regexp.MustCompile(`(?i)\bH\.?265\b`), "H.265"},
	{regexp.MustCompile(`(?i)\bH\.?264\b`), "H.264"},
	{regexp.MustCompile(`(?i)\bAVC\b`), "AVC"},
	{regexp.MustCompile(`(?i)\bAV1\b`), "AV1"},
	{regexp.MustCompile(`(?i)\bXviD\b`), "XviD"},
	{regexp.MustCompile(`(?i)\bDivX\b`), "DivX"},
}

func init() {
	patterns := []string{
		`\b\d{3,4}[pi]\b`,
		`\b(4K|UHD)\b`,
		`\b(HDR10\+?|HDR|DoVi|DV|HLG|SDR)\b`,
		`\b(DTS-HD|DTS-X|DTS|TrueHD|Atmos|AAC|AC3|EAC3|DD\+?|DDP|FLAC|Opus|MP3)\b`,
		`\b\d\.\d\b`,
		`\b(BluRay|Blu-ray|BDRip|REMUX|WEB-DL|WEBDL|WEBRip|WEB)\b`,
		`\b(HDTV|DVDRip|DVD|CAM)\b`,
		`\b(AMZN|NF|ATVP|HULU|DSNP|HMAX|PCOK|PMTP)\b`,
		`\b(x264|x265|HEVC|AVC|AV1|H\.?264|H\.?265|XviD|DivX)\b`,
		`\b(PROPER|REPACK|iNTERNAL|LIMITED|EXTENDED|REMASTERED)\b`,
		`\b(DUAL|DL|MULTI|DUB|SUB|SUBS)\b`,
		`\b(RARBG|YTS|YIFY)\b`,
		`\bv\d+\b`,
		`\[.*?\]`,
		`\b(8bit|10bit|12bit)\b`,
	}

	releasePatterns = make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		releasePatterns = append(releasePatterns, regexp.MustCompile(`(?i)`+pattern))
	}
}

// mediaExtensions are the extensions recognized as media file suffixes.
// Anything else is treated as part of the name.
var mediaExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".m4v": true,
	".mov": true, ".wmv": true, ".ts": true, ".m2ts": true,
	".webm": true, ".flv": true, ".strm": true,
	".srt": true, ".sub": true, ".ass": true,
}

// Tokenize extracts a Guess from a filename or path.
//
// Number-like tokens are disambiguated by a fixed precedence: episode
// markers are consumed first, then resolution markers, and only the
// remaining 4-digit tokens are considered as years.
func Tokenize(input string) (Guess, error) {
	if strings.TrimSpace(input) == "" {
		return Guess{}, ErrEmptyInput
	}

	name := filepath.Base(input)

	var g Guess
	if ext := strings.ToLower(filepath.Ext(name)); mediaExtensions[ext] {
		g.Ext = ext[1:]
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	// Precedence 1: episode markers.
	titlePart := name
	if season, episode, loc := extractEpisodeInfo(name); loc >= 0 {
		g.MediaType = MediaTypeEpisode
		g.Season = season
		g.Episode = episode
		titlePart = name[:loc]
	} else {
		g.MediaType = MediaTypeMovie
	}

	// Precedence 2: resolution markers.
	g.Resolution = extractResolution(name)
	g.Source = extractSource(name)
	g.Codec = extractCodec(name)

	// Precedence 3: remaining numerics as year.
	g.Year = extractYear(name)

	cleaned := stripReleaseMarkers(titlePart)
	cleaned = removeYearToken(cleaned, g.Year)
	g.Title = strings.TrimSpace(normalizeSpaces(cleaned))

	return g, nil
}

// IsEpisodeFilename reports whether a filename carries episode markers.
func IsEpisodeFilename(filename string) bool {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	_, _, loc := extractEpisodeInfo(base)
	return loc >= 0
}

func extractEpisodeInfo(s string) (season, episode, loc int) {
	if m := episodeSERegex.FindStringSubmatchIndex(s); m != nil {
		season, _ = strconv.Atoi(s[m[2]:m[3]])
		episode, _ = strconv.Atoi(s[m[4]:m[5]])
		return season, episode, m[0]
	}
	if m := episodeXRegex.FindStringSubmatchIndex(s); m != nil {
		season, _ = strconv.Atoi(s[m[2]:m[3]])
		episode, _ = strconv.Atoi(s[m[4]:m[5]])
		return season, episode, m[0]
	}
	return 0, 0, -1
}

func extractResolution(s string) string {
	if m := resolutionRegex.FindStringSubmatch(s); len(m) > 1 {
		return m[1] + "p"
	}
	if fourKRegex.MatchString(s) {
		return "2160p"
	}
	return ""
}

func extractSource(s string) string {
	for _, rule := range sourceRules {
		if rule.re.MatchString(s) {
			return rule.canonical
		}
	}
	return ""
}

func extractCodec(s string) string {
	for _, rule := range codecRules {
		if rule.re.MatchString(s) {
			return rule.canonical
		}
	}
	return ""
}

func extractYear(s string) string {
	if m := yearParenRegex.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}

	matches := yearRegex.FindAllString(s, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		year := matches[i]
		if year < "1900" || year > "2099" {
			continue
		}
		// Skip resolution widths that look like years.
		if year == "2160" || year == "1920" || year == "1440" || year == "1280" {
			continue
		}
		return year
	}

	return ""
}

func stripReleaseMarkers(s string) string {
	// The trailing release group must go before its hyphen is turned
	// into a space. Dotted and underscored names are release style;
	// plain names keep hyphens that belong to the title (Spider-Man).
	if strings.ContainsAny(s, "._") {
		s = trailingGroupRegex.ReplaceAllString(s, "")
	}

	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	for _, re := range releasePatterns {
		s = re.ReplaceAllString(s, " ")
	}

	return s
}

func removeYearToken(s, year string) string {
	if year == "" {
		return s
	}

	s = " " + s + " "
	s = strings.ReplaceAll(s, "("+year+")", " ")
	s = strings.ReplaceAll(s, "["+year+"]", " ")
	s = strings.ReplaceAll(s, " "+year+" ", " ")

	return s
}

func formatEpisodeMarker(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

var spaceRegex = regexp.MustCompile(`\s+`)

func normalizeSpaces(s string) string {
	return spaceRegex.ReplaceAllString(s, " ")
}
