// Package planner computes rename plans for resolved media files.
//
// Planning never mutates the filesystem; it only inspects existing
// destinations to detect collisions. Applying a plan is the organizer's
// job and happens in an explicit separate step.
package planner

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/reelsort/internal/naming"
	"github.com/Nomadcxx/reelsort/internal/resolver"
)

// Action is what should happen to a source file.
type Action string

const (
	ActionRename   Action = "rename"
	ActionSkip     Action = "skip"
	ActionConflict Action = "conflict"
)

// Plan is a proposed, not-yet-applied rename.
type Plan struct {
	Source string
	Target string
	Action Action
	Reason string // set for skip and conflict
}

// Config holds destination library roots.
type Config struct {
	MovieLibrary string
	TVLibrary    string
}

// Planner computes plans against a pair of library roots.
type Planner struct {
	movieLib string
	tvLib    string
}

// New creates a Planner.
func New(cfg Config) *Planner {
	return &Planner{
		movieLib: cfg.MovieLibrary,
		tvLib:    cfg.TVLibrary,
	}
}

// Plan computes the destination for a resolution. Unresolved and
// ambiguous resolutions plan as skip; an existing destination with
// different content plans as conflict, never as an overwrite.
func (p *Planner) Plan(sourcePath string, res *resolver.Resolution) Plan {
	plan := Plan{Source: sourcePath}

	switch res.State {
	case resolver.StateUnresolved:
		plan.Action = ActionSkip
		plan.Reason = "no catalog match"
		return plan
	case resolver.StateAmbiguous:
		plan.Action = ActionSkip
		plan.Reason = fmt.Sprintf("ambiguous: %d candidates", len(res.Candidates))
		return plan
	}

	plan.Target = p.targetPath(res)

	switch {
	case plan.Target == sourcePath:
		plan.Action = ActionSkip
		plan.Reason = "already organized"
	case destinationOccupied(plan.Target):
		if sameContent(sourcePath, plan.Target) {
			plan.Action = ActionSkip
			plan.Reason = "identical file already at destination"
		} else {
			plan.Action = ActionConflict
			plan.Reason = "destination exists with different content"
		}
	default:
		plan.Action = ActionRename
	}

	return plan
}

// targetPath renders the library destination for a resolved file.
func (p *Planner) targetPath(res *resolver.Resolution) string {
	title := sanitizeComponent(res.Chosen.Title)
	year := res.Chosen.Year
	ext := res.Guess.Ext

	folder := naming.FormatTitleYear(title, year)

	if res.Guess.IsEpisode() {
		return filepath.Join(
			p.tvLib,
			folder,
			naming.FormatSeasonFolder(res.Guess.Season),
			naming.FormatEpisodeFilename(title, year, res.Guess.Season, res.Guess.Episode, ext),
		)
	}

	return filepath.Join(p.movieLib, folder, naming.FormatMovieFilename(title, year, ext))
}

// sanitizeComponent strips characters that are unsafe in path components.
func sanitizeComponent(s string) string {
	replacer := strings.NewReplacer(
		"/", "", "\\", "", ":", "", "*", "",
		"?", "", "\"", "", "<", "", ">", "", "|", "",
	)
	return strings.TrimSpace(replacer.Replace(s))
}

func destinationOccupied(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// headHashSize bounds how much of each file is hashed for identity checks.
const headHashSize = 64 * 1024

// sameContent reports whether two files share size and head hash.
// A short hash over the head is enough to tell apart different releases
// of the same title without reading multi-gigabyte files end to end.
func sameContent(a, b string) bool {
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	if infoA.Size() != infoB.Size() {
		return false
	}

	hashA, err := headHash(a)
	if err != nil {
		return false
	}
	hashB, err := headHash(b)
	if err != nil {
		return false
	}
	return bytes.Equal(hashA, hashB)
}

func headHash(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyN(h, f, headHashSize); err != nil && err != io.EOF {
		return nil, err
	}
	return h.Sum(nil), nil
}
