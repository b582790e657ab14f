// Package pipeline runs the identify, resolve, plan, apply flow over
// batches of files.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/Nomadcxx/reelsort/internal/logging"
	"github.com/Nomadcxx/reelsort/internal/naming"
	"github.com/Nomadcxx/reelsort/internal/organizer"
	"github.com/Nomadcxx/reelsort/internal/planner"
	"github.com/Nomadcxx/reelsort/internal/resolver"
)

// defaultWorkers bounds pipeline concurrency. The resolver applies its
// own in-flight cap on catalog queries, so this only limits local work.
const defaultWorkers = 4

// minParseConfidence is the parse quality floor for auto-acceptance.
// Titles that still look like release debris are never trusted enough
// to move files, even when the catalog agrees with them.
const minParseConfidence = 0.55

// SidecarWriter generates metadata sidecars for an organized file.
// Wired to the nfo generator in production; nil disables sidecars.
type SidecarWriter interface {
	GenerateMovie(ctx context.Context, tmdbID int, videoPath string) error
	GenerateEpisode(ctx context.Context, seriesID, season, episode int, videoPath string) error
}

// Outcome describes what happened to one file.
type Outcome struct {
	Source     string
	Plan       planner.Plan
	Resolution *resolver.Resolution
	Applied    bool
	Err        error
}

// Summary aggregates outcomes for a batch run.
type Summary struct {
	Total      int
	Renamed    int
	Skipped    int
	Conflicts  int
	Ambiguous  int
	Unresolved int
	Errors     int
}

// Failed reports whether the run should exit non-zero.
func (s Summary) Failed() bool {
	return s.Conflicts > 0 || s.Errors > 0
}

// Pipeline wires the stages together.
type Pipeline struct {
	resolver  *resolver.Resolver
	planner   *planner.Planner
	organizer *organizer.Organizer
	sidecars  SidecarWriter
	workers   int
	apply     bool
	logger    *logging.Logger
}

// Options configures a pipeline.
type Options struct {
	Resolver  *resolver.Resolver
	Planner   *planner.Planner
	Organizer *organizer.Organizer
	Sidecars  SidecarWriter
	Workers   int
	Apply     bool
	Logger    *logging.Logger
}

func New(opts Options) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Pipeline{
		resolver:  opts.Resolver,
		planner:   opts.Planner,
		organizer: opts.Organizer,
		sidecars:  opts.Sidecars,
		workers:   workers,
		apply:     opts.Apply,
		logger:    logger,
	}
}

// Run processes paths and returns per-file outcomes in input order plus
// a batch summary.
func (p *Pipeline) Run(ctx context.Context, paths []string) ([]Outcome, Summary) {
	outcomes := make([]Outcome, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = p.processOne(ctx, paths[i])
				p.logOutcome(outcomes[i])
			}
		}()
	}

	for i := range paths {
		if err := ctx.Err(); err != nil {
			// Unprocessed files surface the cancellation.
			for j := i; j < len(paths); j++ {
				outcomes[j] = Outcome{Source: paths[j], Err: err}
			}
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := summarize(outcomes)
	p.logger.Info("pipeline", "batch complete",
		logging.F("total", summary.Total),
		logging.F("renamed", summary.Renamed),
		logging.F("skipped", summary.Skipped),
		logging.F("conflicts", summary.Conflicts),
		logging.F("errors", summary.Errors))
	return outcomes, summary
}

func (p *Pipeline) logOutcome(o Outcome) {
	if o.Err != nil {
		p.logger.Error("pipeline", "processing failed", o.Err, logging.F("file", o.Source))
		return
	}
	p.logger.Debug("pipeline", "processed file",
		logging.F("file", o.Source),
		logging.F("action", string(o.Plan.Action)),
		logging.F("applied", o.Applied))
}

func (p *Pipeline) processOne(ctx context.Context, path string) Outcome {
	outcome := Outcome{Source: path}

	guess, err := naming.Tokenize(filepath.Base(path))
	if err != nil {
		outcome.Err = err
		return outcome
	}

	res, err := p.resolver.Resolve(ctx, guess)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Resolution = res

	// A catalog match is only as good as the parse that produced the
	// query. Demote dirty parses so they are reviewed, not misfiled.
	if res.Resolved() {
		if conf := naming.TitleConfidence(guess.Title, filepath.Base(path)); conf < minParseConfidence {
			p.logger.Debug("pipeline", "low parse confidence",
				logging.F("file", path),
				logging.F("confidence", conf))
			res.State = resolver.StateAmbiguous
			res.Chosen = nil
		}
	}

	outcome.Plan = p.planner.Plan(path, res)

	if !p.apply {
		return outcome
	}

	result := p.organizer.Apply(outcome.Plan)
	outcome.Applied = result.Applied
	if result.Error != nil {
		outcome.Err = result.Error
		return outcome
	}

	if outcome.Applied && p.sidecars != nil && res.Resolved() {
		outcome.Err = p.writeSidecars(ctx, res, outcome.Plan.Target)
	}
	return outcome
}

func (p *Pipeline) writeSidecars(ctx context.Context, res *resolver.Resolution, videoPath string) error {
	if res.Guess.IsEpisode() {
		return p.sidecars.GenerateEpisode(ctx, res.Chosen.ID, res.Guess.Season, res.Guess.Episode, videoPath)
	}
	return p.sidecars.GenerateMovie(ctx, res.Chosen.ID, videoPath)
}

func summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Err != nil {
			switch {
			case errors.Is(o.Err, organizer.ErrConflict):
				s.Conflicts++
			case errors.Is(o.Err, naming.ErrEmptyInput):
				// A name we cannot parse is skipped, not a batch failure.
				s.Skipped++
			default:
				s.Errors++
			}
			continue
		}
		switch o.Plan.Action {
		case planner.ActionRename:
			s.Renamed++
		case planner.ActionConflict:
			s.Conflicts++
		case planner.ActionSkip:
			s.Skipped++
			if o.Resolution != nil {
				switch o.Resolution.State {
				case resolver.StateAmbiguous:
					s.Ambiguous++
				case resolver.StateUnresolved:
					s.Unresolved++
				}
			}
		}
	}
	return s
}
