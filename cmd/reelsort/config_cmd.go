package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/reelsort/internal/config"
	"github.com/Nomadcxx/reelsort/internal/tmdb"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage reelsort configuration",
		Long: `Commands for managing reelsort configuration.

The config file is stored at: ~/.config/reelsort/config.toml

Examples:
  reelsort config init              # Create default config file
  reelsort config show              # Display current configuration
  reelsort config test              # Test paths and the TMDb connection
  reelsort config path              # Show config file path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigTestCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Long: `Create a new configuration file with default values.

The config file will be created at ~/.config/reelsort/config.toml
Edit it to set your TMDb API key, library paths, and watch directories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ConfigExists() && !force {
				path, _ := config.ConfigPath()
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()

			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			path, _ := config.ConfigPath()
			fmt.Printf("✓ Created config file: %s\n", path)
			fmt.Println("\nNext steps:")
			fmt.Println("  1. Set tmdb.api_key (or export REELSORT_TMDB_API_KEY)")
			fmt.Println("  2. Set libraries.movies and libraries.tv")
			fmt.Println("  3. Run 'reelsort config test' to verify")

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.ConfigExists() {
				return fmt.Errorf("no config file found (run 'reelsort config init' first)")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			path, _ := config.ConfigPath()
			fmt.Printf("Config file: %s\n\n", path)

			fmt.Println("=== TMDb ===")
			fmt.Printf("API Key:  %s\n", maskAPIKey(cfg.TMDb.APIKey))
			fmt.Printf("Language: %s\n", cfg.TMDb.Language)

			fmt.Println("\n=== Resolver ===")
			fmt.Printf("Similarity threshold: %.2f\n", cfg.Resolver.SimilarityThreshold)
			fmt.Printf("Max in-flight:        %d\n", cfg.Resolver.MaxInFlight)

			fmt.Println("\n=== Libraries ===")
			fmt.Printf("Movies: %s\n", orNone(cfg.Libraries.Movies))
			fmt.Printf("TV:     %s\n", orNone(cfg.Libraries.TV))

			fmt.Println("\n=== Watch ===")
			fmt.Printf("Dirs:   %v\n", cfg.Watch.Dirs)
			fmt.Printf("Settle: %ds\n", cfg.Watch.SettleSeconds)

			fmt.Println("\n=== Options ===")
			fmt.Printf("Dry Run:     %v\n", cfg.Options.DryRun)
			fmt.Printf("Keep Source: %v\n", cfg.Options.KeepSource)
			fmt.Printf("Write NFO:   %v\n", cfg.Options.WriteNFO)
			fmt.Printf("Artwork:     %v\n", cfg.Options.Artwork)

			return nil
		},
	}
}

func newConfigTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test configuration and TMDb connection",
		Long: `Verify that configured paths exist and the TMDb API key works.

Tests:
  - Watch directories are readable
  - Library directories are writable
  - TMDb connectivity and API key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.ConfigExists() {
				return fmt.Errorf("no config file found (run 'reelsort config init' first)")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var errs []string

			fmt.Println("Testing configuration...")

			fmt.Println("\n=== Watch Directories ===")
			if len(cfg.Watch.Dirs) == 0 {
				fmt.Println("⚠ No watch directories configured")
			}
			for _, dir := range cfg.Watch.Dirs {
				if err := testReadable(dir); err != nil {
					errs = append(errs, fmt.Sprintf("watch dir %s: %v", dir, err))
					fmt.Printf("✗ %s (%v)\n", dir, err)
				} else {
					fmt.Printf("✓ %s\n", dir)
				}
			}

			fmt.Println("\n=== Library Directories ===")
			for label, dir := range map[string]string{"Movies": cfg.Libraries.Movies, "TV": cfg.Libraries.TV} {
				if dir == "" {
					fmt.Printf("⚠ %s library not configured\n", label)
					continue
				}
				if err := testWritable(dir); err != nil {
					errs = append(errs, fmt.Sprintf("%s library %s: %v", label, dir, err))
					fmt.Printf("✗ %s: %s (%v)\n", label, dir, err)
				} else {
					fmt.Printf("✓ %s: %s\n", label, dir)
				}
			}

			fmt.Println("\n=== TMDb ===")
			if cfg.TMDb.APIKey == "" {
				errs = append(errs, "tmdb.api_key not set")
				fmt.Println("✗ API key not configured")
			} else {
				client := tmdb.NewClient(tmdb.Config{
					APIKey:   cfg.TMDb.APIKey,
					Language: cfg.TMDb.Language,
					Timeout:  10 * time.Second,
				})
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := client.Ping(ctx); err != nil {
					errs = append(errs, fmt.Sprintf("TMDb connection failed: %v", err))
					fmt.Printf("✗ Connection failed: %v\n", err)
				} else {
					fmt.Println("✓ Connected")
				}
			}

			if len(errs) > 0 {
				fmt.Printf("\n✗ %d error(s) found:\n", len(errs))
				for _, e := range errs {
					fmt.Printf("  - %s\n", e)
				}
				return fmt.Errorf("configuration has %d error(s)", len(errs))
			}

			fmt.Println("\n✓ Configuration is valid")
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			if !config.ConfigExists() {
				fmt.Println("(file does not exist)")
			}
			return nil
		},
	}
}

func testReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("does not exist")
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory")
	}
	if _, err := os.ReadDir(path); err != nil {
		return fmt.Errorf("not readable")
	}
	return nil
}

func testWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("does not exist")
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory")
	}

	testFile := fmt.Sprintf("%s/.reelsort_write_test_%d", path, time.Now().UnixNano())
	f, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("not writable")
	}
	f.Close()
	os.Remove(testFile)
	return nil
}

func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
