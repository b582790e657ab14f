package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Nomadcxx/reelsort/internal/paths"
)

type Config struct {
	TMDb      TMDbConfig      `mapstructure:"tmdb"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Libraries LibrariesConfig `mapstructure:"libraries"`
	Options   OptionsConfig   `mapstructure:"options"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// TMDbConfig contains TMDb API settings
type TMDbConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Language       string `mapstructure:"language"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Retries        int    `mapstructure:"retries"`
}

// ResolverConfig controls how catalog matches are accepted
type ResolverConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	MaxInFlight         int     `mapstructure:"max_in_flight"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds"`
}

// ScanConfig controls which files a scan picks up
type ScanConfig struct {
	MinMovieSizeMB   int `mapstructure:"min_movie_size_mb"`
	MinEpisodeSizeMB int `mapstructure:"min_episode_size_mb"`
}

// WatchConfig contains directories where new downloads arrive
type WatchConfig struct {
	Dirs          []string `mapstructure:"dirs"`
	SettleSeconds int      `mapstructure:"settle_seconds"`
}

// LibrariesConfig contains destination library paths
type LibrariesConfig struct {
	Movies string `mapstructure:"movies"`
	TV     string `mapstructure:"tv"`
}

// OptionsConfig contains general options
type OptionsConfig struct {
	DryRun     bool `mapstructure:"dry_run"`
	KeepSource bool `mapstructure:"keep_source"`
	WriteNFO   bool `mapstructure:"write_nfo"`
	Artwork    bool `mapstructure:"artwork"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDb: TMDbConfig{
			APIKey:         "",
			Language:       "en-US",
			TimeoutSeconds: 30,
			Retries:        2,
		},
		Resolver: ResolverConfig{
			SimilarityThreshold: 0.95,
			MaxInFlight:         4,
			TimeoutSeconds:      30,
		},
		Scan: ScanConfig{
			MinMovieSizeMB:   500,
			MinEpisodeSizeMB: 50,
		},
		Watch: WatchConfig{
			Dirs:          []string{},
			SettleSeconds: 30,
		},
		Libraries: LibrariesConfig{
			Movies: "",
			TV:     "",
		},
		Options: OptionsConfig{
			DryRun:     false,
			KeepSource: false,
			WriteNFO:   true,
			Artwork:    true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Load loads configuration from file or returns defaults.
// REELSORT_TMDB_API_KEY overrides the key from the file so it can stay
// out of version-controlled configs.
func Load() (*Config, error) {
	configPath, err := paths.ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from an explicit path.
func LoadFrom(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if key := os.Getenv("REELSORT_TMDB_API_KEY"); key != "" {
		cfg.TMDb.APIKey = key
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configFile)
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(configFile string) error {
	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	return os.WriteFile(configFile, []byte(c.ToTOML()), 0644)
}

func ConfigPath() (string, error) {
	return paths.ConfigPath()
}

func ConfigExists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Validate reports configuration problems that make a run pointless.
func (c *Config) Validate() error {
	if c.TMDb.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is not set (or export REELSORT_TMDB_API_KEY)")
	}
	if c.Resolver.SimilarityThreshold < 0 || c.Resolver.SimilarityThreshold > 1 {
		return fmt.Errorf("resolver.similarity_threshold must be between 0 and 1")
	}
	if c.Resolver.MaxInFlight < 1 {
		return fmt.Errorf("resolver.max_in_flight must be at least 1")
	}
	return nil
}

func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# Reelsort Configuration
# Generated by: reelsort config init

# ============================================================================
# TMDB API
# Get an API key from: https://www.themoviedb.org/settings/api
# The REELSORT_TMDB_API_KEY environment variable overrides api_key.
# ============================================================================
[tmdb]
api_key = "%s"
language = "%s"
timeout_seconds = %d
retries = %d

# ============================================================================
# MATCH RESOLUTION
# A catalog match is auto-accepted only when a single candidate scores at
# or above similarity_threshold and its year agrees with the filename.
# ============================================================================
[resolver]
similarity_threshold = %.2f
max_in_flight = %d
timeout_seconds = %d

# ============================================================================
# SCANNING
# Files below the size thresholds are treated as samples and skipped.
# ============================================================================
[scan]
min_movie_size_mb = %d
min_episode_size_mb = %d

# ============================================================================
# WATCH DIRECTORIES
# Directories where new downloads arrive (from Sabnzbd, qBittorrent, etc.)
# ============================================================================
[watch]
dirs = %s

# Seconds a file must be stable before it is processed
settle_seconds = %d

# ============================================================================
# LIBRARY DIRECTORIES
# Where organized media files are moved to:
#   movies: Movie Name (Year)/Movie Name (Year).ext
#   tv:     Show Name (Year)/Season XX/Show Name (Year) S01E01.ext
# ============================================================================
[libraries]
movies = "%s"
tv = "%s"

# ============================================================================
# GENERAL OPTIONS
# ============================================================================
[options]
# Preview mode - don't actually move files
dry_run = %v

# Copy instead of move, leaving the source in place
keep_source = %v

# Write Jellyfin/Emby .nfo sidecars after organizing
write_nfo = %v

# Download poster and fanart images alongside sidecars
artwork = %v

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = "%s"
file = "%s"
max_size_mb = %d
max_backups = %d
`,
		c.TMDb.APIKey,
		c.TMDb.Language,
		c.TMDb.TimeoutSeconds,
		c.TMDb.Retries,
		c.Resolver.SimilarityThreshold,
		c.Resolver.MaxInFlight,
		c.Resolver.TimeoutSeconds,
		c.Scan.MinMovieSizeMB,
		c.Scan.MinEpisodeSizeMB,
		formatStringSlice(c.Watch.Dirs),
		c.Watch.SettleSeconds,
		c.Libraries.Movies,
		c.Libraries.TV,
		c.Options.DryRun,
		c.Options.KeepSource,
		c.Options.WriteNFO,
		c.Options.Artwork,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
