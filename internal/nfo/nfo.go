// Package nfo writes Jellyfin/Emby compatible metadata sidecars next to
// organized media files.
package nfo

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/reelsort/internal/tmdb"
)

// xmlHeader matches the declaration Jellyfin's own writers emit.
const xmlHeader = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>` + "\n"

// Actor is a cast entry in a movie or show sidecar.
type Actor struct {
	Name  string `xml:"name"`
	Role  string `xml:"role"`
	Order int    `xml:"order"`
}

// MovieNFO is the movie.nfo document.
type MovieNFO struct {
	XMLName       xml.Name `xml:"movie"`
	Title         string   `xml:"title"`
	OriginalTitle string   `xml:"originaltitle"`
	SortTitle     string   `xml:"sorttitle"`
	Year          string   `xml:"year"`
	ReleaseDate   string   `xml:"releasedate"`
	Plot          string   `xml:"plot"`
	Runtime       int      `xml:"runtime,omitempty"`
	Rating        float64  `xml:"rating"`
	TMDbID        int      `xml:"tmdbid"`
	Genres        []string `xml:"genre"`
	Directors     []string `xml:"director"`
	Actors        []Actor  `xml:"actor"`
}

// ShowNFO is the tvshow.nfo document.
type ShowNFO struct {
	XMLName       xml.Name `xml:"tvshow"`
	Title         string   `xml:"title"`
	OriginalTitle string   `xml:"originaltitle"`
	Year          string   `xml:"year"`
	Premiered     string   `xml:"premiered"`
	Plot          string   `xml:"plot"`
	Rating        float64  `xml:"rating"`
	TMDbID        int      `xml:"tmdbid"`
	Genres        []string `xml:"genre"`
	Actors        []Actor  `xml:"actor"`
}

// SeasonNFO is the per-season sidecar document.
type SeasonNFO struct {
	XMLName      xml.Name `xml:"season"`
	SeasonNumber int      `xml:"seasonnumber"`
	Title        string   `xml:"title"`
	Plot         string   `xml:"plot"`
	Premiered    string   `xml:"premiered,omitempty"`
}

// EpisodeNFO is the per-episode sidecar document.
type EpisodeNFO struct {
	XMLName xml.Name `xml:"episodedetails"`
	Title   string   `xml:"title"`
	Season  int      `xml:"season"`
	Episode int      `xml:"episode"`
	Aired   string   `xml:"aired"`
	Plot    string   `xml:"plot"`
	TMDbID  int      `xml:"tmdbid"`
}

// MovieDocument builds a movie.nfo document from TMDb details and credits.
func MovieDocument(movie *tmdb.Movie, credits *tmdb.Credits) *MovieNFO {
	doc := &MovieNFO{
		Title:         movie.Title,
		OriginalTitle: movie.OriginalTitle,
		SortTitle:     movie.Title,
		Year:          movie.Year(),
		ReleaseDate:   movie.ReleaseDate,
		Plot:          movie.Overview,
		Runtime:       movie.Runtime,
		Rating:        movie.VoteAverage,
		TMDbID:        movie.ID,
	}
	for _, g := range movie.Genres {
		doc.Genres = append(doc.Genres, g.Name)
	}
	if credits != nil {
		doc.Directors = credits.Directors()
		doc.Actors = actors(credits)
	}
	return doc
}

// ShowDocument builds a tvshow.nfo document from TMDb details and credits.
func ShowDocument(series *tmdb.Series, credits *tmdb.Credits) *ShowNFO {
	doc := &ShowNFO{
		Title:         series.Name,
		OriginalTitle: series.OriginalName,
		Year:          series.Year(),
		Premiered:     series.FirstAirDate,
		Plot:          series.Overview,
		Rating:        series.VoteAverage,
		TMDbID:        series.ID,
	}
	for _, g := range series.Genres {
		doc.Genres = append(doc.Genres, g.Name)
	}
	if credits != nil {
		doc.Actors = actors(credits)
	}
	return doc
}

// SeasonDocument builds a season sidecar document. A missing season name
// falls back to the folder convention.
func SeasonDocument(season *tmdb.Season) *SeasonNFO {
	title := season.Name
	if title == "" {
		title = fmt.Sprintf("Season %d", season.SeasonNumber)
	}
	return &SeasonNFO{
		SeasonNumber: season.SeasonNumber,
		Title:        title,
		Plot:         season.Overview,
		Premiered:    season.AirDate,
	}
}

// EpisodeDocument builds an episode sidecar document.
func EpisodeDocument(episode *tmdb.Episode) *EpisodeNFO {
	return &EpisodeNFO{
		Title:   episode.Name,
		Season:  episode.SeasonNumber,
		Episode: episode.EpisodeNumber,
		Aired:   episode.AirDate,
		Plot:    episode.Overview,
		TMDbID:  episode.ID,
	}
}

func actors(credits *tmdb.Credits) []Actor {
	var list []Actor
	for _, member := range credits.Cast {
		list = append(list, Actor{
			Name:  member.Name,
			Role:  member.Character,
			Order: member.Order,
		})
	}
	return list
}

// Write marshals doc as indented XML to path. Existing non-empty sidecars
// are left alone so user edits survive re-runs.
func Write(path string, doc any) error {
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return nil
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal nfo: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(xmlHeader+string(data)+"\n"), 0644)
}

// MoviePath returns the sidecar path for an organized movie file.
// Jellyfin accepts either movie.nfo or <filename>.nfo; the latter keeps
// multi-version folders unambiguous.
func MoviePath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".nfo"
}

// ShowPath returns the tvshow.nfo path for a series folder.
func ShowPath(seriesDir string) string {
	return filepath.Join(seriesDir, "tvshow.nfo")
}

// SeasonPath returns the season.nfo path for a season folder.
func SeasonPath(seasonDir string) string {
	return filepath.Join(seasonDir, "season.nfo")
}

// EpisodePath returns the sidecar path for an organized episode file.
func EpisodePath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".nfo"
}

// StillPath returns the episode still image path next to the video,
// named after the episode file itself.
func StillPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".jpg"
}
