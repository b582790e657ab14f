package organizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/reelsort/internal/planner"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestApplyRename(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "downloads", "movie.mkv")
	target := filepath.Join(dir, "Movies", "Movie (2020)", "Movie (2020).mkv")
	writeFile(t, source, "content")

	o := New()
	result := o.Apply(planner.Plan{Source: source, Target: target, Action: planner.ActionRename})

	require.NoError(t, result.Error)
	assert.True(t, result.Applied)
	assert.FileExists(t, target)
	assert.NoFileExists(t, source)
}

func TestApplyKeepSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "movie.mkv")
	target := filepath.Join(dir, "Movies", "Movie (2020).mkv")
	writeFile(t, source, "content")

	o := New(WithKeepSource(true))
	result := o.Apply(planner.Plan{Source: source, Target: target, Action: planner.ActionRename})

	require.NoError(t, result.Error)
	assert.FileExists(t, target)
	assert.FileExists(t, source)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestApplyDryRun(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "movie.mkv")
	target := filepath.Join(dir, "Movies", "Movie (2020).mkv")
	writeFile(t, source, "content")

	o := New(WithDryRun(true))
	result := o.Apply(planner.Plan{Source: source, Target: target, Action: planner.ActionRename})

	require.NoError(t, result.Error)
	assert.False(t, result.Applied)
	assert.NoFileExists(t, target)
	assert.NoFileExists(t, filepath.Dir(target))
	assert.FileExists(t, source)
}

func TestApplySkipIsNoop(t *testing.T) {
	o := New()
	result := o.Apply(planner.Plan{Source: "/nonexistent", Action: planner.ActionSkip})

	assert.NoError(t, result.Error)
	assert.False(t, result.Applied)
}

func TestApplyConflictRefused(t *testing.T) {
	o := New()
	result := o.Apply(planner.Plan{
		Source: "/downloads/movie.mkv",
		Target: "/library/movie.mkv",
		Action: planner.ActionConflict,
	})

	assert.ErrorIs(t, result.Error, ErrConflict)
	assert.False(t, result.Applied)
}

func TestApplyDetectsLateConflict(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "movie.mkv")
	target := filepath.Join(dir, "Movies", "Movie (2020).mkv")
	writeFile(t, source, "new")
	// Destination appears after planning.
	writeFile(t, target, "old")

	o := New()
	result := o.Apply(planner.Plan{Source: source, Target: target, Action: planner.ActionRename})

	assert.ErrorIs(t, result.Error, ErrConflict)
	assert.FileExists(t, source)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}
