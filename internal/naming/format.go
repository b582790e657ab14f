package naming

import "fmt"

// Naming templates for organized libraries:
//
//	movies:   Title (Year)/Title (Year).ext
//	episodes: Title (Year)/Season NN/Title (Year) SnnEnn.ext
//
// The year segment is omitted when unknown.

// FormatTitleYear renders "Title (Year)", the canonical folder name.
func FormatTitleYear(title, year string) string {
	if year != "" {
		return fmt.Sprintf("%s (%s)", title, year)
	}
	return title
}

// FormatMovieFilename renders the canonical movie filename.
func FormatMovieFilename(title, year, ext string) string {
	return fmt.Sprintf("%s.%s", FormatTitleYear(title, year), ext)
}

// FormatSeasonFolder renders a season folder name, e.g. "Season 01".
func FormatSeasonFolder(season int) string {
	return fmt.Sprintf("Season %02d", season)
}

// FormatEpisodeFilename renders the canonical episode filename.
func FormatEpisodeFilename(title, year string, season, episode int, ext string) string {
	return fmt.Sprintf("%s %s.%s", FormatTitleYear(title, year), formatEpisodeMarker(season, episode), ext)
}
