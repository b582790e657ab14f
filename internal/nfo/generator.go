package nfo

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Nomadcxx/reelsort/internal/logging"
	"github.com/Nomadcxx/reelsort/internal/tmdb"
)

// Metadata is the subset of the TMDb client the generator needs.
type Metadata interface {
	MovieDetails(ctx context.Context, id int) (*tmdb.Movie, error)
	MovieCredits(ctx context.Context, id int) (*tmdb.Credits, error)
	SeriesDetails(ctx context.Context, id int) (*tmdb.Series, error)
	SeriesCredits(ctx context.Context, id int) (*tmdb.Credits, error)
	SeasonDetails(ctx context.Context, seriesID, season int) (*tmdb.Season, error)
	EpisodeDetails(ctx context.Context, seriesID, season, episode int) (*tmdb.Episode, error)
	DownloadImage(ctx context.Context, imagePath, destPath string) error
}

// Generator fetches TMDb details and writes sidecars and artwork for
// organized media files.
type Generator struct {
	meta    Metadata
	artwork bool
	logger  *logging.Logger
}

// NewGenerator creates a sidecar generator. When artwork is true, poster
// and fanart images are downloaded alongside the sidecars.
func NewGenerator(meta Metadata, artwork bool, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Generator{meta: meta, artwork: artwork, logger: logger}
}

// GenerateMovie writes <video>.nfo next to videoPath plus poster/fanart
// in the same folder.
func (g *Generator) GenerateMovie(ctx context.Context, tmdbID int, videoPath string) error {
	details, err := g.meta.MovieDetails(ctx, tmdbID)
	if err != nil {
		return fmt.Errorf("movie details: %w", err)
	}
	credits, err := g.meta.MovieCredits(ctx, tmdbID)
	if err != nil {
		return fmt.Errorf("movie credits: %w", err)
	}

	path := MoviePath(videoPath)
	if err := Write(path, MovieDocument(details, credits)); err != nil {
		return err
	}
	g.logger.Info("nfo", "wrote sidecar", logging.F("path", path))

	if g.artwork {
		dir := filepath.Dir(videoPath)
		g.downloadArtwork(ctx, details.PosterPath, filepath.Join(dir, "poster.jpg"))
		g.downloadArtwork(ctx, details.BackdropPath, filepath.Join(dir, "fanart.jpg"))
	}
	return nil
}

// GenerateEpisode writes the episode sidecar plus, once per folder,
// tvshow.nfo and season.nfo with their artwork.
func (g *Generator) GenerateEpisode(ctx context.Context, seriesID, season, episode int, videoPath string) error {
	details, err := g.meta.SeriesDetails(ctx, seriesID)
	if err != nil {
		return fmt.Errorf("series details: %w", err)
	}
	credits, err := g.meta.SeriesCredits(ctx, seriesID)
	if err != nil {
		return fmt.Errorf("series credits: %w", err)
	}

	// Season folder sits directly under the series folder.
	seasonDir := filepath.Dir(videoPath)
	seriesDir := filepath.Dir(seasonDir)

	showPath := ShowPath(seriesDir)
	if err := Write(showPath, ShowDocument(details, credits)); err != nil {
		return err
	}

	seasonDetails, err := g.meta.SeasonDetails(ctx, seriesID, season)
	if err != nil {
		return fmt.Errorf("season details: %w", err)
	}
	if err := Write(SeasonPath(seasonDir), SeasonDocument(seasonDetails)); err != nil {
		return err
	}

	ep, err := g.meta.EpisodeDetails(ctx, seriesID, season, episode)
	if err != nil {
		return fmt.Errorf("episode details: %w", err)
	}
	epPath := EpisodePath(videoPath)
	if err := Write(epPath, EpisodeDocument(ep)); err != nil {
		return err
	}
	g.logger.Info("nfo", "wrote sidecar", logging.F("path", epPath))

	if g.artwork {
		g.downloadArtwork(ctx, details.PosterPath, filepath.Join(seriesDir, "poster.jpg"))
		g.downloadArtwork(ctx, details.BackdropPath, filepath.Join(seriesDir, "fanart.jpg"))
		g.downloadArtwork(ctx, seasonDetails.PosterPath, filepath.Join(seasonDir, "season-poster.jpg"))
		g.downloadArtwork(ctx, seasonDetails.BackdropPath, filepath.Join(seasonDir, "season-fanart.jpg"))
		g.downloadArtwork(ctx, ep.StillPath, StillPath(videoPath))
	}
	return nil
}

// downloadArtwork failures are logged, not fatal: sidecars matter more
// than images.
func (g *Generator) downloadArtwork(ctx context.Context, imagePath, destPath string) {
	if imagePath == "" {
		return
	}
	if err := g.meta.DownloadImage(ctx, imagePath, destPath); err != nil {
		g.logger.Warn("nfo", "artwork download failed",
			logging.F("dest", destPath),
			logging.F("error", err.Error()))
	}
}
