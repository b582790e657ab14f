package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:embed assets/header.txt
var asciiHeader string

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	verbose bool
	dryRun  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reelsort",
		Short: "Identify and organize media files with TMDb metadata",
		Long: `Reelsort identifies movies and TV episodes from their filenames,
resolves them against The Movie Database, and organizes them into
Jellyfin-compliant library folders.

Features:
  - Filename tokenization: title, year, SxxExx, resolution, source, codec
  - TMDb matching with a strict auto-accept policy (no silent misfiles)
  - Plan first, apply second: every rename is previewable
  - NFO sidecars and artwork for organized files`,
	}

	originalHelpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "reelsort" {
			printHeader(version)
		}
		originalHelpFunc(cmd, args)
	})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "preview changes without moving files")

	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newIdentifyCmd())
	rootCmd.AddCommand(newNFOCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			printHeader(version)
		},
	}
}

func printHeader(version string) {
	fmt.Println(asciiHeader)
	fmt.Printf("Version: %s\n\n", version)
}
