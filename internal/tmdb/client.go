// Package tmdb is a client for The Movie Database v3 API.
//
// Transient failures (transport errors, 429, 5xx) are retried with
// exponential backoff; other 4xx responses fail immediately with a
// *QueryError so callers can tell a bad request from a flaky service.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Nomadcxx/reelsort/internal/naming"
	"github.com/Nomadcxx/reelsort/internal/resolver"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultImageURL = "https://image.tmdb.org/t/p/original"
)

// QueryError is a non-retryable catalog failure.
type QueryError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d: %s", e.Endpoint, e.Status, e.Body)
}

// Config configures a Client. APIKey is required.
type Config struct {
	APIKey   string
	Language string // e.g. "en-US"
	BaseURL  string // override for tests
	ImageURL string
	Timeout  time.Duration
	Retries  int // retry attempts after the first try
}

// Client talks to the TMDb REST API.
type Client struct {
	http     *resty.Client
	imageURL string
}

// NewClient creates a TMDb client from cfg.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageURL := cfg.ImageURL
	if imageURL == "" {
		imageURL = defaultImageURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	retries := cfg.Retries
	if retries == 0 {
		retries = 2
	}
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetQueryParam("api_key", cfg.APIKey).
		SetQueryParam("language", language).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(8 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				// Transport failure; retrying a cancelled context is pointless.
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			}
			return r.StatusCode() >= 500 || r.StatusCode() == 429
		})

	return &Client{http: http, imageURL: imageURL}
}

// get performs a GET against endpoint, decoding the body into result.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, result interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(result).
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("tmdb: %s: %w", endpoint, err)
	}
	if resp.IsError() {
		return &QueryError{
			Status:   resp.StatusCode(),
			Endpoint: endpoint,
			Body:     string(resp.Body()),
		}
	}
	return nil
}

// Ping verifies connectivity and the API key against the configuration
// endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Images map[string]interface{} `json:"images"`
	}
	return c.get(ctx, "/configuration", nil, &out)
}

// SearchMovies searches movies by title, optionally constrained by year.
func (c *Client) SearchMovies(ctx context.Context, query, year string) ([]Movie, error) {
	params := map[string]string{"query": query}
	if year != "" {
		params["year"] = year
	}
	var out movieSearchResults
	if err := c.get(ctx, "/search/movie", params, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// SearchSeries searches TV series by title.
func (c *Client) SearchSeries(ctx context.Context, query string) ([]Series, error) {
	var out seriesSearchResults
	if err := c.get(ctx, "/search/tv", map[string]string{"query": query}, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// MovieDetails fetches full details for a movie.
func (c *Client) MovieDetails(ctx context.Context, id int) (*Movie, error) {
	var out Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SeriesDetails fetches full details for a series.
func (c *Client) SeriesDetails(ctx context.Context, id int) (*Series, error) {
	var out Series
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovieCredits fetches cast and crew for a movie.
func (c *Client) MovieCredits(ctx context.Context, id int) (*Credits, error) {
	var out Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SeriesCredits fetches cast and crew for a series.
func (c *Client) SeriesCredits(ctx context.Context, id int) (*Credits, error) {
	var out Credits
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/credits", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SeasonDetails fetches details for a single season.
func (c *Client) SeasonDetails(ctx context.Context, seriesID, season int) (*Season, error) {
	var out Season
	endpoint := fmt.Sprintf("/tv/%d/season/%d", seriesID, season)
	if err := c.get(ctx, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EpisodeDetails fetches details for a single episode.
func (c *Client) EpisodeDetails(ctx context.Context, seriesID, season, episode int) (*Episode, error) {
	var out Episode
	endpoint := fmt.Sprintf("/tv/%d/season/%d/episode/%d", seriesID, season, episode)
	if err := c.get(ctx, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadImage downloads a TMDb image path (e.g. a poster_path) to
// destPath. Existing non-empty files are left alone.
func (c *Client) DownloadImage(ctx context.Context, imagePath, destPath string) error {
	if imagePath == "" {
		return nil
	}
	if info, err := os.Stat(destPath); err == nil && info.Size() > 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("tmdb: creating image dir: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(destPath).
		Get(c.imageURL + imagePath)
	if err != nil {
		return fmt.Errorf("tmdb: downloading %s: %w", imagePath, err)
	}
	if resp.IsError() {
		return &QueryError{
			Status:   resp.StatusCode(),
			Endpoint: imagePath,
			Body:     http.StatusText(resp.StatusCode()),
		}
	}
	return nil
}

// Search implements resolver.Catalog over the TMDb search endpoints.
func (c *Client) Search(ctx context.Context, title, year string, mediaType naming.MediaType) ([]resolver.Candidate, error) {
	if mediaType == naming.MediaTypeEpisode {
		series, err := c.SearchSeries(ctx, title)
		if err != nil {
			return nil, err
		}
		candidates := make([]resolver.Candidate, 0, len(series))
		for _, s := range series {
			candidates = append(candidates, resolver.Candidate{
				ID:            s.ID,
				Title:         s.Name,
				OriginalTitle: s.OriginalName,
				Year:          s.Year(),
				MediaType:     naming.MediaTypeEpisode,
				Popularity:    s.Popularity,
				Overview:      s.Overview,
			})
		}
		return candidates, nil
	}

	movies, err := c.SearchMovies(ctx, title, year)
	if err != nil {
		return nil, err
	}
	candidates := make([]resolver.Candidate, 0, len(movies))
	for _, m := range movies {
		candidates = append(candidates, resolver.Candidate{
			ID:            m.ID,
			Title:         m.Title,
			OriginalTitle: m.OriginalTitle,
			Year:          m.Year(),
			MediaType:     naming.MediaTypeMovie,
			Popularity:    m.Popularity,
			Overview:      m.Overview,
		})
	}
	return candidates, nil
}
