package tmdb

import "strings"

// Movie is a TMDb movie search result or details payload.
type Movie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	Overview      string  `json:"overview"`
	Runtime       int     `json:"runtime,omitempty"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Genres        []Genre `json:"genres,omitempty"`
}

// Year returns the release year, or "" when unknown.
func (m Movie) Year() string {
	return yearOf(m.ReleaseDate)
}

// Series is a TMDb TV search result or details payload.
type Series struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	OriginalName     string  `json:"original_name"`
	FirstAirDate     string  `json:"first_air_date"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	NumberOfSeasons  int     `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int     `json:"number_of_episodes,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	CreatedBy        []struct {
		Name string `json:"name"`
	} `json:"created_by,omitempty"`
}

// Year returns the first-air year, or "" when unknown.
func (s Series) Year() string {
	return yearOf(s.FirstAirDate)
}

// Season is a TMDb season details payload.
type Season struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	AirDate      string `json:"air_date"`
	SeasonNumber int    `json:"season_number"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// Episode is a TMDb episode details payload.
type Episode struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	AirDate       string `json:"air_date"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	StillPath     string `json:"still_path"`
}

// Genre is a TMDb genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits holds the cast and crew of a movie or series.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is a single cast credit.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is a single crew credit.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Directors returns the names of crew members credited as Director.
func (c Credits) Directors() []string {
	var names []string
	for _, member := range c.Crew {
		if member.Job == "Director" {
			names = append(names, member.Name)
		}
	}
	return names
}

type movieSearchResults struct {
	Results    []Movie `json:"results"`
	TotalPages int     `json:"total_pages"`
}

type seriesSearchResults struct {
	Results    []Series `json:"results"`
	TotalPages int      `json:"total_pages"`
}

func yearOf(date string) string {
	if idx := strings.Index(date, "-"); idx == 4 {
		return date[:4]
	}
	if len(date) == 4 {
		return date
	}
	return ""
}
