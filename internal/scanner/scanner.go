package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MinMovieSize and MinEpisodeSize filter out stubs and samples that slip
// past the pattern checks.
const (
	MinMovieSize   int64 = 500 * 1024 * 1024
	MinEpisodeSize int64 = 50 * 1024 * 1024
)

// File is a video file discovered during a scan.
type File struct {
	Path       string
	Size       int64
	ModifiedAt time.Time
}

// Result contains statistics from a scan operation.
type Result struct {
	Files        []File
	FilesScanned int
	FilesSkipped int
	Duration     time.Duration
	Errors       []error
}

// Progress reports progress during scanning.
type Progress struct {
	FilesScanned int
	CurrentPath  string
	RootsDone    int
	RootsTotal   int
}

// ProgressCallback is called periodically during scanning.
type ProgressCallback func(Progress)

// Options configures the scanning behavior.
type Options struct {
	Roots      []string
	MinSize    int64
	OnProgress ProgressCallback
}

// progressReportInterval controls how often progress is reported during scanning.
const progressReportInterval = 10

// Scanner walks directory trees looking for video files worth organizing.
type Scanner struct {
	minSize      int64
	skipPatterns []string
}

// New creates a scanner with default settings.
func New() *Scanner {
	return &Scanner{
		minSize: MinEpisodeSize,
		skipPatterns: []string{
			"sample", "trailer", "extras", "extra",
			"featurette", "behind the scenes", "deleted scene",
			"interview", "bonus", "cover", "artwork",
			"proof", "rarbg",
		},
	}
}

// WithMinSize overrides the minimum file size threshold.
func (s *Scanner) WithMinSize(size int64) *Scanner {
	s.minSize = size
	return s
}

// Scan walks the given roots and collects video files.
func (s *Scanner) Scan(ctx context.Context, roots ...string) (*Result, error) {
	return s.ScanWithOptions(ctx, Options{Roots: roots, MinSize: s.minSize})
}

// ScanWithOptions walks roots with configurable options including a
// progress callback.
func (s *Scanner) ScanWithOptions(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	result := &Result{}

	minSize := opts.MinSize
	if minSize == 0 {
		minSize = s.minSize
	}

	rootsDone := 0
	for _, root := range opts.Roots {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				FilesScanned: result.FilesScanned,
				CurrentPath:  root,
				RootsDone:    rootsDone,
				RootsTotal:   len(opts.Roots),
			})
		}
		if err := s.scanRoot(ctx, root, minSize, result, opts.OnProgress, rootsDone, len(opts.Roots)); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			result.Errors = append(result.Errors, fmt.Errorf("scan %s: %w", root, err))
		}
		rootsDone++
	}

	if opts.OnProgress != nil {
		opts.OnProgress(Progress{
			FilesScanned: result.FilesScanned,
			RootsDone:    len(opts.Roots),
			RootsTotal:   len(opts.Roots),
		})
	}

	result.Duration = time.Since(start)
	return result, nil
}

// scanRoot is the internal recursive walker. A single broken entry does
// not abort the walk; only context cancellation does.
func (s *Scanner) scanRoot(ctx context.Context, root string, minSize int64, result *Result, progress ProgressCallback, rootsDone, rootsTotal int) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	// A root can also be a single file.
	if !info.IsDir() {
		if isVideoFile(root) {
			result.FilesScanned++
			s.consider(root, info, minSize, result)
		}
		return nil
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("walk %s: %w", path, err))
			return nil
		}

		if info.IsDir() {
			return nil
		}

		if !isVideoFile(path) {
			return nil
		}

		result.FilesScanned++

		if progress != nil && result.FilesScanned%progressReportInterval == 0 {
			progress(Progress{
				FilesScanned: result.FilesScanned,
				CurrentPath:  path,
				RootsDone:    rootsDone,
				RootsTotal:   rootsTotal,
			})
		}

		s.consider(path, info, minSize, result)
		return nil
	})
}

func (s *Scanner) consider(path string, info os.FileInfo, minSize int64, result *Result) {
	if s.isExtraContent(path) || info.Size() < minSize {
		result.FilesSkipped++
		return
	}
	result.Files = append(result.Files, File{
		Path:       path,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	})
}

// isExtraContent checks whether a file is a sample, trailer, or other extra.
func (s *Scanner) isExtraContent(path string) bool {
	lowerPath := strings.ToLower(path)
	for _, pattern := range s.skipPatterns {
		if strings.Contains(lowerPath, pattern) {
			return true
		}
	}
	return false
}

// isVideoFile checks if a file is a video based on extension.
func isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mkv":  true,
		".mp4":  true,
		".avi":  true,
		".m4v":  true,
		".mov":  true,
		".wmv":  true,
		".ts":   true,
		".m2ts": true,
		".webm": true,
		".flv":  true,
	}
	return videoExts[ext]
}
