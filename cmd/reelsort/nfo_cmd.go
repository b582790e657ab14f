package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/reelsort/internal/naming"
	"github.com/Nomadcxx/reelsort/internal/nfo"
	"github.com/Nomadcxx/reelsort/internal/resolver"
)

func newNFOCmd() *cobra.Command {
	var noArtwork bool

	cmd := &cobra.Command{
		Use:   "nfo <path>...",
		Short: "Generate NFO sidecars for organized media files",
		Long: `Generate Jellyfin/Emby .nfo sidecars (and poster/fanart images)
for media files already organized into the library layout.

Files are identified from their names and resolved against TMDb; files
that cannot be resolved unambiguously are reported and skipped. Existing
sidecars are never overwritten.

Examples:
  reelsort nfo /media/Movies/
  reelsort nfo "/media/TV/Silo (2023)/Season 02/Silo (2023) S02E03.mkv"
  reelsort nfo /media/Movies/ --no-artwork`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(stackOptions{noLibraries: true})
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := s.preflight(ctx); err != nil {
				return err
			}

			scan, err := s.scanner.Scan(ctx, args...)
			if err != nil {
				return err
			}
			if len(scan.Files) == 0 {
				fmt.Println("No video files found")
				return nil
			}

			res := resolver.New(s.client, resolver.Config{
				SimilarityThreshold: s.cfg.Resolver.SimilarityThreshold,
				MaxInFlight:         s.cfg.Resolver.MaxInFlight,
				Timeout:             time.Duration(s.cfg.Resolver.TimeoutSeconds) * time.Second,
			})
			gen := nfo.NewGenerator(s.client, !noArtwork && s.cfg.Options.Artwork, s.logger)

			var written, skipped, failed int
			for _, f := range scan.Files {
				name := filepath.Base(f.Path)

				guess, err := naming.Tokenize(name)
				if err != nil {
					fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, err)
					failed++
					continue
				}

				resolution, err := res.Resolve(ctx, guess)
				if err != nil {
					fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, err)
					failed++
					continue
				}
				if !resolution.Resolved() {
					fmt.Printf("⊘ %s: %s match\n", name, resolution.State)
					skipped++
					continue
				}

				if s.dryRun {
					fmt.Printf("✓ would write sidecars for %s\n", name)
					written++
					continue
				}

				if guess.IsEpisode() {
					err = gen.GenerateEpisode(ctx, resolution.Chosen.ID, guess.Season, guess.Episode, f.Path)
				} else {
					err = gen.GenerateMovie(ctx, resolution.Chosen.ID, f.Path)
				}
				if err != nil {
					fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, err)
					failed++
					continue
				}

				fmt.Printf("✓ %s\n", name)
				written++
			}

			fmt.Printf("\nSummary: %d sidecars written, %d skipped, %d failed\n", written, skipped, failed)
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noArtwork, "no-artwork", false, "skip poster and fanart downloads")

	return cmd
}
