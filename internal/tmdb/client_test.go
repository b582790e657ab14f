package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Nomadcxx/reelsort/internal/naming"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		APIKey:   "test-key",
		BaseURL:  serverURL,
		ImageURL: serverURL + "/images",
		Timeout:  5 * time.Second,
	})
}

func TestClientPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/configuration" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"images":{"base_url":"http://image.tmdb.org/t/p/"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}

func TestClientPingUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}

	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected *QueryError, got %T", err)
	}
	if qe.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", qe.Status)
	}
}

func TestSearchMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("query"); got != "The Matrix" {
			t.Errorf("query = %q, want The Matrix", got)
		}
		if got := r.URL.Query().Get("year"); got != "1999" {
			t.Errorf("year = %q, want 1999", got)
		}
		if got := r.URL.Query().Get("language"); got != "en-US" {
			t.Errorf("language = %q, want en-US", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(movieSearchResults{
			Results: []Movie{
				{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30", Popularity: 85.1},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	movies, err := client.SearchMovies(context.Background(), "The Matrix", "1999")
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected 1 result, got %d", len(movies))
	}
	if movies[0].ID != 603 || movies[0].Year() != "1999" {
		t.Errorf("unexpected result %+v", movies[0])
	}
}

func TestSearchImplementsCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/movie":
			json.NewEncoder(w).Encode(movieSearchResults{
				Results: []Movie{{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30"}},
			})
		case "/search/tv":
			json.NewEncoder(w).Encode(seriesSearchResults{
				Results: []Series{{ID: 1399, Name: "Game of Thrones", FirstAirDate: "2011-04-17"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	movies, err := client.Search(context.Background(), "The Matrix", "1999", naming.MediaTypeMovie)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 1 || movies[0].MediaType != naming.MediaTypeMovie || movies[0].Year != "1999" {
		t.Errorf("unexpected movie candidates %+v", movies)
	}

	series, err := client.Search(context.Background(), "Game of Thrones", "", naming.MediaTypeEpisode)
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 1 || series[0].ID != 1399 || series[0].Year != "2011" {
		t.Errorf("unexpected series candidates %+v", series)
	}
}

func TestEpisodeDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1399/season/1/episode/1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Episode{
			ID: 63056, Name: "Winter Is Coming", SeasonNumber: 1, EpisodeNumber: 1,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ep, err := client.EpisodeDetails(context.Background(), 1399, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ep.Name != "Winter Is Coming" {
		t.Errorf("unexpected episode %+v", ep)
	}
}

func TestSeasonDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1399/season/1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Season{
			Name: "Season 1", SeasonNumber: 1, PosterPath: "/s1.jpg",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	season, err := client.SeasonDetails(context.Background(), 1399, 1)
	if err != nil {
		t.Fatal(err)
	}
	if season.Name != "Season 1" || season.PosterPath != "/s1.jpg" {
		t.Errorf("unexpected season %+v", season)
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"images":{}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("ping failed after retry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestNoRetryOnNotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestDownloadImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/poster.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("jpeg bytes"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	dest := filepath.Join(t.TempDir(), "artwork", "poster.jpg")
	if err := client.DownloadImage(context.Background(), "/poster.jpg", dest); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestDownloadImageSkipsExisting(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("fresh"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "poster.jpg")
	if err := os.WriteFile(dest, []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	client := newTestClient(server.URL)
	if err := client.DownloadImage(context.Background(), "/poster.jpg", dest); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("calls = %d, want 0", got)
	}

	data, _ := os.ReadFile(dest)
	if string(data) != "existing" {
		t.Errorf("existing artwork overwritten: %q", data)
	}
}
