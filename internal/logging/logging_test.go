package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"WARN", LevelWarn},
		{"garbage", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(Config{Level: "info", File: logFile})
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Info("scan", "started", F("root", "/downloads"))
	logger.Debug("scan", "this should be filtered")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}

	content := string(data)
	if !strings.Contains(content, "started") {
		t.Errorf("log missing info entry: %s", content)
	}
	if !strings.Contains(content, "root=/downloads") {
		t.Errorf("log missing field: %s", content)
	}
	if strings.Contains(content, "filtered") {
		t.Errorf("debug entry leaked at info level: %s", content)
	}
}

func TestRotateFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "reelsort.log")

	for _, name := range []string{"reelsort.log", "reelsort.1.log", "reelsort.2.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := rotateFiles(base, 2); err != nil {
		t.Fatal(err)
	}

	// Oldest backup at the limit is dropped, the rest shift.
	if _, err := os.Stat(filepath.Join(dir, "reelsort.1.log")); err != nil {
		t.Error("expected reelsort.1.log to exist")
	}
	if _, err := os.Stat(filepath.Join(dir, "reelsort.2.log")); err != nil {
		t.Error("expected reelsort.2.log to exist")
	}
	if _, err := os.Stat(base); err == nil {
		t.Error("expected base log to be rotated away")
	}

	data, _ := os.ReadFile(filepath.Join(dir, "reelsort.1.log"))
	if string(data) != "reelsort.log" {
		t.Errorf("reelsort.1.log content = %q, want the rotated base file", data)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	logger := Nop()
	logger.Info("x", "no output")
	logger.Error("x", "no output", nil)
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
