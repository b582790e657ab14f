package naming

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when a filename is empty or whitespace-only.
// Any other input produces a best-effort Guess, never an error.
var ErrEmptyInput = errors.New("empty filename")

// MediaType classifies a guessed file.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeEpisode MediaType = "episode"
)

// Guess holds the fields extracted from a release filename.
// Missing fields are zero values. A Guess is never mutated after Tokenize
// returns it; derived strings are produced by value methods.
type Guess struct {
	Title      string
	Year       string
	Season     int
	Episode    int
	Resolution string // e.g. "1080p", "2160p"
	Source     string // e.g. "BluRay", "WEB-DL"
	Codec      string // e.g. "x265", "HEVC"
	Ext        string // extension without dot, e.g. "mkv"
	MediaType  MediaType
}

// HasYear reports whether a 4-digit year was extracted.
func (g Guess) HasYear() bool {
	return g.Year != ""
}

// IsEpisode reports whether episode markers were found.
func (g Guess) IsEpisode() bool {
	return g.MediaType == MediaTypeEpisode
}

// Normalized renders the guess back into a canonical filename string.
// Tokenizing this string yields an identical Guess.
func (g Guess) Normalized() string {
	parts := []string{g.Title}
	if g.Year != "" {
		parts = append(parts, "("+g.Year+")")
	}
	if g.IsEpisode() {
		parts = append(parts, fmt.Sprintf("S%02dE%02d", g.Season, g.Episode))
	}
	for _, tag := range []string{g.Resolution, g.Source, g.Codec} {
		if tag != "" {
			parts = append(parts, tag)
		}
	}
	s := strings.Join(parts, " ")
	if g.Ext != "" {
		s += "." + g.Ext
	}
	return s
}
