// Package organizer applies rename plans to the filesystem.
//
// This is the only component that moves files. Plans marked skip are
// no-ops and plans marked conflict are refused outright; the planner's
// decision is never second-guessed here.
package organizer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Nomadcxx/reelsort/internal/planner"
)

// ErrConflict is returned when asked to apply a conflict plan.
var ErrConflict = errors.New("refusing to apply conflicting plan")

// Result records the outcome of applying one plan.
type Result struct {
	Plan    planner.Plan
	Applied bool
	Error   error
}

// Organizer applies plans.
type Organizer struct {
	dryRun     bool
	keepSource bool
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithDryRun previews application without touching the filesystem.
// Dry-run results report Applied false since nothing actually moved.
func WithDryRun(dryRun bool) Option {
	return func(o *Organizer) {
		o.dryRun = dryRun
	}
}

// WithKeepSource copies instead of moving, leaving the source in place.
func WithKeepSource(keep bool) Option {
	return func(o *Organizer) {
		o.keepSource = keep
	}
}

// New creates an Organizer.
func New(options ...Option) *Organizer {
	o := &Organizer{}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Apply executes a single plan. Skips succeed without touching anything;
// conflicts fail with ErrConflict.
func (o *Organizer) Apply(plan planner.Plan) Result {
	result := Result{Plan: plan}

	switch plan.Action {
	case planner.ActionSkip:
		return result
	case planner.ActionConflict:
		result.Error = ErrConflict
		return result
	}

	if o.dryRun {
		return result
	}

	if err := os.MkdirAll(filepath.Dir(plan.Target), 0755); err != nil {
		result.Error = fmt.Errorf("creating target dir: %w", err)
		return result
	}

	// The destination may have appeared since planning.
	if info, err := os.Stat(plan.Target); err == nil && !info.IsDir() {
		result.Error = ErrConflict
		return result
	}

	var err error
	if o.keepSource {
		err = copyFile(plan.Source, plan.Target)
	} else {
		err = moveFile(plan.Source, plan.Target)
	}
	if err != nil {
		result.Error = err
		return result
	}

	result.Applied = true
	return result
}

// moveFile renames src to dst, falling back to copy-then-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return fmt.Errorf("renaming: %w", err)
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmp := dst + ".partial"
	dstFile, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		os.Remove(tmp)
		return fmt.Errorf("copying: %w", err)
	}
	if err := dstFile.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing destination: %w", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalizing destination: %w", err)
	}
	return nil
}
