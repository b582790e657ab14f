package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Nomadcxx/reelsort/internal/config"
	"github.com/Nomadcxx/reelsort/internal/logging"
	"github.com/Nomadcxx/reelsort/internal/nfo"
	"github.com/Nomadcxx/reelsort/internal/organizer"
	"github.com/Nomadcxx/reelsort/internal/pipeline"
	"github.com/Nomadcxx/reelsort/internal/planner"
	"github.com/Nomadcxx/reelsort/internal/resolver"
	"github.com/Nomadcxx/reelsort/internal/scanner"
	"github.com/Nomadcxx/reelsort/internal/tmdb"
)

// stack is everything a command needs, wired from config.
type stack struct {
	cfg      *config.Config
	client   *tmdb.Client
	pipeline *pipeline.Pipeline
	scanner  *scanner.Scanner
	logger   *logging.Logger
	dryRun   bool
}

type stackOptions struct {
	apply        bool
	movieLibrary string
	tvLibrary    string
	keepSource   bool
	noLibraries  bool // command doesn't move files, libraries optional
}

func buildStack(opts stackOptions) (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opts.movieLibrary != "" {
		cfg.Libraries.Movies = opts.movieLibrary
	}
	if opts.tvLibrary != "" {
		cfg.Libraries.TV = opts.tvLibrary
	}
	if !opts.noLibraries && cfg.Libraries.Movies == "" && cfg.Libraries.TV == "" {
		return nil, fmt.Errorf("no libraries configured (use --movie-library/--tv-library or run 'reelsort config init')")
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:      logLevel,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	client := tmdb.NewClient(tmdb.Config{
		APIKey:   cfg.TMDb.APIKey,
		Language: cfg.TMDb.Language,
		Timeout:  time.Duration(cfg.TMDb.TimeoutSeconds) * time.Second,
		Retries:  cfg.TMDb.Retries,
	})

	res := resolver.New(client, resolver.Config{
		SimilarityThreshold: cfg.Resolver.SimilarityThreshold,
		MaxInFlight:         cfg.Resolver.MaxInFlight,
		Timeout:             time.Duration(cfg.Resolver.TimeoutSeconds) * time.Second,
	})

	plnr := planner.New(planner.Config{
		MovieLibrary: cfg.Libraries.Movies,
		TVLibrary:    cfg.Libraries.TV,
	})

	preview := dryRun || cfg.Options.DryRun
	org := organizer.New(
		organizer.WithDryRun(preview),
		organizer.WithKeepSource(opts.keepSource || cfg.Options.KeepSource),
	)

	var sidecars pipeline.SidecarWriter
	if cfg.Options.WriteNFO && !preview {
		sidecars = nfo.NewGenerator(client, cfg.Options.Artwork, logger)
	}

	p := pipeline.New(pipeline.Options{
		Resolver:  res,
		Planner:   plnr,
		Organizer: org,
		Sidecars:  sidecars,
		Apply:     opts.apply,
		Logger:    logger,
	})

	minMovie := int64(cfg.Scan.MinMovieSizeMB) * 1024 * 1024
	minEpisode := int64(cfg.Scan.MinEpisodeSizeMB) * 1024 * 1024
	minSize := minEpisode
	if minMovie < minSize {
		minSize = minMovie
	}

	return &stack{
		cfg:      cfg,
		client:   client,
		pipeline: p,
		scanner:  scanner.New().WithMinSize(minSize),
		logger:   logger,
		dryRun:   preview,
	}, nil
}

// preflight checks TMDb connectivity and the API key before a batch so
// a bad key fails once, not once per file.
func (s *stack) preflight(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.client.Ping(pingCtx); err != nil {
		return fmt.Errorf("TMDb unreachable: %w", err)
	}
	return nil
}

func (s *stack) close() {
	if s.logger != nil {
		s.logger.Close()
	}
}
