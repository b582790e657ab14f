package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/reelsort/internal/naming"
)

func newIdentifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify <filename>...",
		Short: "Show what a filename parses to",
		Long: `Tokenize filenames without touching TMDb or the filesystem.

Useful for checking how a release name will be interpreted before
planning a batch.

Examples:
  reelsort identify "Silo.S02E03.1080p.WEB-DL.x265.mkv"
  reelsort identify /downloads/*.mkv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				guess, err := naming.Tokenize(filepath.Base(arg))
				if err != nil {
					fmt.Printf("✗ %s: %v\n", arg, err)
					continue
				}
				printGuess(arg, guess)
			}
			return nil
		},
	}
}

func printGuess(input string, g naming.Guess) {
	fmt.Printf("✓ %s\n", input)
	fmt.Printf("  Title:      %s\n", naming.DisplayTitle(g.Title))
	if g.Year != "" {
		fmt.Printf("  Year:       %s\n", g.Year)
	}
	fmt.Printf("  Type:       %s\n", g.MediaType)
	if g.IsEpisode() {
		fmt.Printf("  Episode:    S%02dE%02d\n", g.Season, g.Episode)
	}
	if g.Resolution != "" {
		fmt.Printf("  Resolution: %s\n", g.Resolution)
	}
	if g.Source != "" {
		fmt.Printf("  Source:     %s\n", g.Source)
	}
	if g.Codec != "" {
		fmt.Printf("  Codec:      %s\n", g.Codec)
	}
	if verbose {
		fmt.Printf("  Normalized: %s\n", g.Normalized())
	}
}
