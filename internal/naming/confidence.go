package naming

import (
	"regexp"
	"strings"
)

var (
	// Matches codec patterns at end of title
	codecSuffixRegex = regexp.MustCompile(`(?i)\b(x264|x265|h264|h265|hevc|avc|av1|xvid|divx)$`)
	// Matches resolution patterns at end of title
	resolutionSuffixRegex = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|480p|4k|uhd)$`)
)

// TitleConfidence scores how reliable a parsed title looks (0.0-1.0).
// Clean parses score near 1.0; titles that still carry release debris
// score lower and should not be auto-accepted downstream.
func TitleConfidence(title, originalFilename string) float64 {
	confidence := 1.0

	if len(title) < 3 {
		confidence -= 0.5
	}
	if codecSuffixRegex.MatchString(title) {
		confidence -= 0.4
	}
	if resolutionSuffixRegex.MatchString(title) {
		confidence -= 0.4
	}
	if !strings.Contains(title, " ") && len(title) > 3 {
		confidence -= 0.3 // Single word (but not short abbreviations)
	}
	if hasReleaseMarkers(originalFilename) {
		confidence -= 0.1
	}

	if yearParenRegex.MatchString(originalFilename) {
		confidence += 0.1
	}

	return clamp(confidence, 0.0, 1.0)
}

// hasReleaseMarkers checks if original filename has release group markers
func hasReleaseMarkers(filename string) bool {
	markers := []string{
		"RARBG", "YTS", "YIFY", "SPARKS", "FGT", "NTb", "FLUX",
		"BluRay", "WEB-DL", "WEBRip", "HDTV", "REMUX",
	}
	upper := strings.ToUpper(filename)
	for _, m := range markers {
		if strings.Contains(upper, strings.ToUpper(m)) {
			return true
		}
	}
	return false
}

// clamp restricts value to [min, max] range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
