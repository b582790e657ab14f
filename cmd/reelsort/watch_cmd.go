package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/reelsort/internal/logging"
	"github.com/Nomadcxx/reelsort/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		movieLibrary string
		tvLibrary    string
		settle       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [directory]...",
		Short: "Watch directories and organize new media files",
		Long: `Monitor directories and automatically plan and apply renames for
new media files once they have finished downloading.

A file is processed after it has been stable for the settle period,
so partially-written downloads are never picked up.

With no arguments, the watch.dirs from the config file are used.

Examples:
  reelsort watch /downloads
  reelsort watch /downloads/tv /downloads/movies --settle 1m
  reelsort watch -n   # dry-run, print plans only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(stackOptions{
				apply:        true,
				movieLibrary: movieLibrary,
				tvLibrary:    tvLibrary,
			})
			if err != nil {
				return err
			}
			defer s.close()

			watchDirs := args
			if len(watchDirs) == 0 {
				watchDirs = s.cfg.Watch.Dirs
			}
			if len(watchDirs) == 0 {
				return fmt.Errorf("no watch directories (pass them as arguments or set watch.dirs in config)")
			}

			if settle == 0 {
				settle = time.Duration(s.cfg.Watch.SettleSeconds) * time.Second
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := s.preflight(ctx); err != nil {
				return err
			}

			handler := func(path string) {
				outcomes, _ := s.pipeline.Run(ctx, []string{path})
				for _, o := range outcomes {
					printOutcome(o, true)
					if o.Err != nil {
						s.logger.Error("watch", "processing failed", o.Err, logging.F("path", path))
					}
				}
			}

			w, err := watcher.New(handler, s.logger, watcher.WithSettle(settle))
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			defer w.Close()

			if err := w.Watch(watchDirs); err != nil {
				return fmt.Errorf("setting up watch: %w", err)
			}

			for _, dir := range watchDirs {
				fmt.Printf("Watching: %s\n", dir)
			}
			if dryRun {
				fmt.Println("Mode: DRY RUN (no files will be moved)")
			}
			fmt.Println("\nPress Ctrl+C to stop")

			err = w.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&movieLibrary, "movie-library", "", "target movie library path")
	cmd.Flags().StringVar(&tvLibrary, "tv-library", "", "target TV library path")
	cmd.Flags().DurationVar(&settle, "settle", 0, "time a file must be stable before processing")

	return cmd
}
