// Package resolver matches tokenized filenames against an external
// metadata catalog.
//
// The catalog is a capability interface so resolution policy can be tested
// without network access. Candidates are ranked by title similarity and
// year proximity; a candidate is auto-accepted only when it is the single
// candidate above the similarity threshold and its year matches the guess
// exactly. Everything else stays ambiguous or unresolved for the caller to
// disambiguate.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/agnivade/levenshtein"

	"github.com/Nomadcxx/reelsort/internal/naming"
)

// Candidate is one catalog record matching a guessed title.
type Candidate struct {
	ID            int
	Title         string
	OriginalTitle string
	Year          string
	MediaType     naming.MediaType
	Popularity    float64
	Overview      string

	// Similarity is filled in during ranking.
	Similarity float64
}

// Catalog is the query-by-title capability the resolver needs.
type Catalog interface {
	Search(ctx context.Context, title, year string, mediaType naming.MediaType) ([]Candidate, error)
}

// State describes the outcome of a resolution.
type State string

const (
	// StateResolved means exactly one candidate was accepted.
	StateResolved State = "resolved"
	// StateAmbiguous means multiple plausible candidates remain.
	StateAmbiguous State = "ambiguous"
	// StateUnresolved means the catalog had no usable match.
	StateUnresolved State = "unresolved"
)

// Resolution is the result of resolving one Guess. It holds exactly one
// chosen candidate (StateResolved) or none, never a partial choice.
type Resolution struct {
	Guess      naming.Guess
	State      State
	Chosen     *Candidate
	Candidates []Candidate // ranked, best first
	Confidence float64     // similarity of the best candidate
}

// Resolved reports whether a candidate was accepted.
func (r *Resolution) Resolved() bool {
	return r.State == StateResolved
}

// Config holds resolution policy knobs.
type Config struct {
	// SimilarityThreshold is the minimum title similarity for
	// auto-acceptance. Defaults to 0.95.
	SimilarityThreshold float64
	// MaxInFlight bounds concurrent catalog queries across a batch.
	// Defaults to 4.
	MaxInFlight int
	// Timeout bounds a single catalog query. Defaults to 30s.
	Timeout time.Duration
}

// Resolver resolves guesses against a catalog.
type Resolver struct {
	catalog   Catalog
	threshold float64
	timeout   time.Duration
	gate      chan struct{}
}

// New creates a Resolver for the given catalog.
func New(catalog Catalog, cfg Config) *Resolver {
	threshold := cfg.SimilarityThreshold
	if threshold == 0 {
		threshold = 0.95
	}
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Resolver{
		catalog:   catalog,
		threshold: threshold,
		timeout:   timeout,
		gate:      make(chan struct{}, maxInFlight),
	}
}

// Resolve queries the catalog for guess and applies the selection policy.
// Each call re-queries the catalog; results are never cached here.
func (r *Resolver) Resolve(ctx context.Context, guess naming.Guess) (*Resolution, error) {
	if guess.Title == "" {
		return nil, fmt.Errorf("resolve: %w", naming.ErrEmptyInput)
	}

	select {
	case r.gate <- struct{}{}:
		defer func() { <-r.gate }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	candidates, err := r.catalog.Search(queryCtx, guess.Title, guess.Year, guess.MediaType)
	if err != nil {
		return nil, err
	}

	ranked := rank(guess, candidates)

	res := &Resolution{
		Guess:      guess,
		State:      StateUnresolved,
		Candidates: ranked,
	}
	if len(ranked) == 0 {
		return res, nil
	}
	res.Confidence = ranked[0].Similarity

	aboveThreshold := 0
	for _, c := range ranked {
		if c.Similarity >= r.threshold {
			aboveThreshold++
		}
	}

	switch {
	case aboveThreshold == 1 && ranked[0].Similarity >= r.threshold &&
		guess.HasYear() && ranked[0].Year == guess.Year:
		chosen := ranked[0]
		res.State = StateResolved
		res.Chosen = &chosen
	default:
		res.State = StateAmbiguous
	}

	return res, nil
}

// rank scores candidates against the guess and orders them best first.
func rank(guess naming.Guess, candidates []Candidate) []Candidate {
	jaroWinkler := metrics.NewJaroWinkler()
	guessNorm := naming.NormalizeTitle(guess.Title)

	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.Similarity = titleSimilarity(guessNorm, c, jaroWinkler)
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		si := ranked[i].Similarity + yearBonus(guess.Year, ranked[i].Year)
		sj := ranked[j].Similarity + yearBonus(guess.Year, ranked[j].Year)
		if si != sj {
			return si > sj
		}
		return ranked[i].Popularity > ranked[j].Popularity
	})

	return ranked
}

// titleSimilarity compares the guess against both the localized and the
// original candidate title and keeps the better score.
func titleSimilarity(guessNorm string, c Candidate, metric strutil.StringMetric) float64 {
	best := 0.0
	for _, title := range []string{c.Title, c.OriginalTitle} {
		if title == "" {
			continue
		}
		norm := naming.NormalizeTitle(title)
		if levenshtein.ComputeDistance(guessNorm, norm) == 0 {
			return 1.0
		}
		if score := strutil.Similarity(guessNorm, norm, metric); score > best {
			best = score
		}
	}
	return best
}

// yearBonus rewards candidates whose year is close to the guessed year.
// Release years in filenames are sometimes off by one (festival vs wide
// release), so adjacent years still get a small boost.
func yearBonus(guessYear, candidateYear string) float64 {
	gy, err := strconv.Atoi(guessYear)
	if err != nil {
		return 0
	}
	cy, err := strconv.Atoi(candidateYear)
	if err != nil {
		return 0
	}

	switch diff := gy - cy; {
	case diff == 0:
		return 0.05
	case diff == 1 || diff == -1:
		return 0.02
	default:
		return -0.05
	}
}
