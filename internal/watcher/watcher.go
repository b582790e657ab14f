// Package watcher feeds newly arrived video files into the organizing
// pipeline.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Nomadcxx/reelsort/internal/logging"
)

// Handler receives a file path once the file has settled.
type Handler func(path string)

// Watcher wraps fsnotify with recursive directory registration and a
// settle delay. Downloads are written incrementally, so a file is only
// handed off after no writes have been seen for the settle period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	handler   Handler
	settle    time.Duration
	recursive bool
	logger    *logging.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

type Option func(*Watcher)

func WithRecursive(recursive bool) Option {
	return func(w *Watcher) {
		w.recursive = recursive
	}
}

func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

func New(handler Handler, logger *logging.Logger, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		handler:   handler,
		settle:    30 * time.Second,
		recursive: true,
		logger:    logger,
		pending:   make(map[string]*time.Timer),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		if w.recursive {
			if err := w.addRecursive(path); err != nil {
				return err
			}
		} else {
			if err := w.fsWatcher.Add(path); err != nil {
				return fmt.Errorf("unable to watch %s: %w", path, err)
			}
			w.logger.Info("watcher", "watching", logging.F("path", path))
		}
	}
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("unable to watch %s: %w", path, err)
		}
		w.logger.Info("watcher", "watching", logging.F("path", path))
		return nil
	})
}

// Start processes events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.recursive && !strings.HasPrefix(filepath.Base(event.Name), ".") {
						w.fsWatcher.Add(event.Name)
						w.logger.Info("watcher", "watching new directory", logging.F("path", event.Name))
					}
					continue
				}
			}

			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher", "watch error", err)
		}
	}
}

func (w *Watcher) Close() error {
	w.cancelPending()
	return w.fsWatcher.Close()
}

// handleEvent resets the settle timer on create and write, and drops the
// timer when the file disappears.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isVideoFile(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if timer, ok := w.pending[event.Name]; ok {
			timer.Stop()
			delete(w.pending, event.Name)
		}
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	path := event.Name
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}

	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.logger.Info("watcher", "file settled", logging.F("path", path))
		w.handler(path)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mkv": true, ".mp4": true, ".avi": true, ".mov": true,
		".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
		".mpg": true, ".mpeg": true, ".m2ts": true, ".ts": true,
	}
	return videoExts[ext]
}
