package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func collectHandler() (Handler, func() []string) {
	var mu sync.Mutex
	var paths []string
	handler := func(path string) {
		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
	}
	return handler, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), paths...)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcherHandlesSettledFile(t *testing.T) {
	dir := t.TempDir()
	handler, got := collectHandler()

	w, err := New(handler, nil, WithSettle(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	file := filepath.Join(dir, "Movie.2020.mkv")
	if err := os.WriteFile(file, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return len(got()) == 1 }) {
		t.Fatalf("handler not called, got %v", got())
	}
	if got()[0] != file {
		t.Errorf("handled %s, want %s", got()[0], file)
	}
}

func TestWatcherIgnoresNonVideoFiles(t *testing.T) {
	dir := t.TempDir()
	handler, got := collectHandler()

	w, err := New(handler, nil, WithSettle(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	if len(got()) != 0 {
		t.Errorf("expected no handled files, got %v", got())
	}
}

func TestWatcherDropsRemovedFile(t *testing.T) {
	dir := t.TempDir()
	handler, got := collectHandler()

	w, err := New(handler, nil, WithSettle(200*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	file := filepath.Join(dir, "Movie.2020.mkv")
	if err := os.WriteFile(file, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	// Give fsnotify a moment to deliver the create before removing.
	time.Sleep(50 * time.Millisecond)
	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}

	time.Sleep(400 * time.Millisecond)
	if len(got()) != 0 {
		t.Errorf("expected no handled files, got %v", got())
	}
}

func TestWatcherStartReturnsOnCancel(t *testing.T) {
	w, err := New(func(string) {}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Start(ctx); err != context.Canceled {
		t.Errorf("Start returned %v, want context.Canceled", err)
	}
}
