package naming

import (
	"testing"
)

func TestTokenizeEpisode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Guess
	}{
		{
			name:  "standard scene release",
			input: "Show.Name.S01E02.1080p.mkv",
			want: Guess{
				Title:      "Show Name",
				Season:     1,
				Episode:    2,
				Resolution: "1080p",
				Ext:        "mkv",
				MediaType:  MediaTypeEpisode,
			},
		},
		{
			name:  "full release tags",
			input: "Silo.S02E03.2160p.WEB-DL.DDP5.1.x265-FLUX.mkv",
			want: Guess{
				Title:      "Silo",
				Season:     2,
				Episode:    3,
				Resolution: "2160p",
				Source:     "WEB-DL",
				Codec:      "x265",
				Ext:        "mkv",
				MediaType:  MediaTypeEpisode,
			},
		},
		{
			name:  "NxNN marker",
			input: "Show.Name.1x02.720p.HDTV.mkv",
			want: Guess{
				Title:      "Show Name",
				Season:     1,
				Episode:    2,
				Resolution: "720p",
				Source:     "HDTV",
				Ext:        "mkv",
				MediaType:  MediaTypeEpisode,
			},
		},
		{
			name:  "show with year",
			input: "For All Mankind (2019) S04E01.mkv",
			want: Guess{
				Title:     "For All Mankind",
				Year:      "2019",
				Season:    4,
				Episode:   1,
				Ext:       "mkv",
				MediaType: MediaTypeEpisode,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Tokenize(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeMovie(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Guess
	}{
		{
			name:  "dotted with year",
			input: "The.Matrix.1999.1080p.BluRay.x264.mkv",
			want: Guess{
				Title:      "The Matrix",
				Year:       "1999",
				Resolution: "1080p",
				Source:     "BluRay",
				Codec:      "x264",
				Ext:        "mkv",
				MediaType:  MediaTypeMovie,
			},
		},
		{
			name:  "parenthesized year",
			input: "Dune (2021).mkv",
			want: Guess{
				Title:     "Dune",
				Year:      "2021",
				Ext:       "mkv",
				MediaType: MediaTypeMovie,
			},
		},
		{
			name:  "no year at all",
			input: "Inception.mkv",
			want: Guess{
				Title:     "Inception",
				Ext:       "mkv",
				MediaType: MediaTypeMovie,
			},
		},
		{
			name:  "year-like title picks last year",
			input: "2012.2009.1080p.BluRay.mkv",
			want: Guess{
				Title:      "2012",
				Year:       "2009",
				Resolution: "1080p",
				Source:     "BluRay",
				Ext:        "mkv",
				MediaType:  MediaTypeMovie,
			},
		},
		{
			name:  "resolution width not mistaken for year",
			input: "Some.Movie.1920x1080.mkv",
			want: Guess{
				Title:     "Some Movie 1920x1080",
				Ext:       "mkv",
				MediaType: MediaTypeMovie,
			},
		},
		{
			name:  "trailing release group stripped",
			input: "The.Matrix.1999.1080p.BluRay.x264-SPARKS.mkv",
			want: Guess{
				Title:      "The Matrix",
				Year:       "1999",
				Resolution: "1080p",
				Source:     "BluRay",
				Codec:      "x264",
				Ext:        "mkv",
				MediaType:  MediaTypeMovie,
			},
		},
		{
			name:  "hyphenated title is not a release group",
			input: "Spider-Man.2002.1080p.BluRay.x264-GRP.mkv",
			want: Guess{
				Title:      "Spider Man",
				Year:       "2002",
				Resolution: "1080p",
				Source:     "BluRay",
				Codec:      "x264",
				Ext:        "mkv",
				MediaType:  MediaTypeMovie,
			},
		},
		{
			name:  "plain hyphenated name keeps its tail",
			input: "Spider-Man.mkv",
			want: Guess{
				Title:     "Spider Man",
				Ext:       "mkv",
				MediaType: MediaTypeMovie,
			},
		},
		{
			name:  "4K maps to 2160p",
			input: "Blade.Runner.2049.2017.4K.REMUX.mkv",
			want: Guess{
				Title:      "Blade Runner 2049",
				Year:       "2017",
				Resolution: "2160p",
				Source:     "REMUX",
				Ext:        "mkv",
				MediaType:  MediaTypeMovie,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Tokenize(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		if _, err := Tokenize(input); err != ErrEmptyInput {
			t.Errorf("Tokenize(%q) error = %v, want ErrEmptyInput", input, err)
		}
	}
}

// Tokenizing the normalized rendering of a guess must yield the same guess.
func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"Show.Name.S01E02.1080p.mkv",
		"The.Matrix.1999.1080p.BluRay.x264.mkv",
		"Silo.S02E03.2160p.WEB-DL.x265-FLUX.mkv",
		"Dune (2021).mkv",
		"Inception.mkv",
	}

	for _, input := range inputs {
		first, err := Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", input, err)
		}
		second, err := Tokenize(first.Normalized())
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", first.Normalized(), err)
		}
		if first != second {
			t.Errorf("re-tokenize of %q: got %+v, want %+v", first.Normalized(), second, first)
		}
	}
}

// Every explicit 4-digit year in parentheses must be extracted unchanged.
func TestTokenizeExtractsExplicitYear(t *testing.T) {
	for _, year := range []string{"1933", "1999", "2008", "2024", "2099"} {
		input := "Some Title (" + year + ").mkv"
		g, err := Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", input, err)
		}
		if g.Year != year {
			t.Errorf("Tokenize(%q).Year = %q, want %q", input, g.Year, year)
		}
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	input := "The.Expanse.S05E10.2160p.AMZN.WEB-DL.DDP5.1.HDR.HEVC-NTb.mkv"
	first, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize error: %v", err)
		}
		if again != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestIsEpisodeFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"Show.S01E01.1080p.mkv", true},
		{"Show.1x01.1080p.mkv", true},
		{"Movie.2024.1080p.BluRay.mkv", false},
		{"The.Matrix.1999.mkv", false},
	}

	for _, tt := range tests {
		if got := IsEpisodeFilename(tt.filename); got != tt.want {
			t.Errorf("IsEpisodeFilename(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
