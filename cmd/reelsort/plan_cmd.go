package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/reelsort/internal/pipeline"
	"github.com/Nomadcxx/reelsort/internal/planner"
	"github.com/Nomadcxx/reelsort/internal/resolver"
)

func newPlanCmd() *cobra.Command {
	var (
		apply        bool
		movieLibrary string
		tvLibrary    string
		keepSource   bool
	)

	cmd := &cobra.Command{
		Use:   "plan <path>...",
		Short: "Plan (and optionally apply) library renames",
		Long: `Identify media files, resolve them against TMDb, and print the
rename each file would receive. Nothing is moved unless --apply is given.

Sources can be files or directories; directories are scanned recursively
for video files.

Examples:
  reelsort plan /downloads/
  reelsort plan /downloads/Silo.S02E03.1080p.mkv --apply
  reelsort plan /downloads/ --apply --movie-library /media/Movies`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(stackOptions{
				apply:        apply,
				movieLibrary: movieLibrary,
				tvLibrary:    tvLibrary,
				keepSource:   keepSource,
			})
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

			paths := make([]string, len(scan.Files))
			for i, f := range scan.Files {
				paths[i] = f.Path
			}

			outcomes, summary := s.pipeline.Run(ctx, paths)
			for _, o := range outcomes {
				printOutcome(o, apply)
			}
			printSummary(summary, apply && !s.dryRun)

			if summary.Failed() {
				return fmt.Errorf("%d conflict(s), %d error(s)", summary.Conflicts, summary.Errors)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "apply the planned renames")
	cmd.Flags().StringVar(&movieLibrary, "movie-library", "", "target movie library path")
	cmd.Flags().StringVar(&tvLibrary, "tv-library", "", "target TV library path")
	cmd.Flags().BoolVarP(&keepSource, "keep-source", "k", false, "copy instead of move (keep source files)")

	return cmd
}

func printOutcome(o pipeline.Outcome, apply bool) {
	name := filepath.Base(o.Source)

	if o.Err != nil {
		fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, o.Err)
		return
	}

	switch o.Plan.Action {
	case planner.ActionRename:
		action := "would rename"
		if apply && o.Applied {
			action = "renamed"
		}
		fmt.Printf("✓ %s %s\n", action, name)
		if verbose || apply {
			fmt.Printf("  → %s\n", o.Plan.Target)
		}
	case planner.ActionConflict:
		fmt.Printf("✗ conflict %s\n", name)
		fmt.Printf("  %s\n", o.Plan.Reason)
	case planner.ActionSkip:
		fmt.Printf("⊘ skipped %s\n", name)
		if verbose {
			fmt.Printf("  Reason: %s\n", o.Plan.Reason)
			if o.Resolution != nil && o.Resolution.State == resolver.StateAmbiguous {
				for _, c := range o.Resolution.Candidates {
					fmt.Printf("  ? %s (%s)\n", c.Title, c.Year)
				}
			}
		}
	}
}

func printSummary(s pipeline.Summary, apply bool) {
	verb := "planned"
	if apply {
		verb = "renamed"
	}
	fmt.Printf("\nSummary: %d processed, %d %s, %d skipped (%d ambiguous, %d unresolved), %d conflicts, %d errors\n",
		s.Total, s.Renamed, verb, s.Skipped, s.Ambiguous, s.Unresolved, s.Conflicts, s.Errors)
}
