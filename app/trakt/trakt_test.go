package trakt

import (
	"context"
	"errors"
	"testing"

	"github.com/lysyi3m/filmhook/app/tmdb"
)

func breakingBad() *Show {
	return &Show{Title: "Breaking Bad", Year: 2008, IDs: IDs{Trakt: 1, Slug: "breaking-bad", TMDB: 1396}}
}

func showRating(score int) Rating {
	return Rating{RatedAt: "2024-03-01T10:00:00.000Z", Score: score, Type: "show", Show: breakingBad()}
}

func episodeRating(score, season, number int, title string) Rating {
	return Rating{
		RatedAt: "2024-03-01T11:00:00.000Z",
		Score:   score,
		Type:    "episode",
		Show:    breakingBad(),
		Episode: &Episode{Season: season, Number: number, Title: title},
	}
}

type fakePosters struct {
	url   string
	err   error
	media tmdb.Media
	id    int
}

func (f *fakePosters) Poster(ctx context.Context, media tmdb.Media, id int) (string, error) {
	f.media, f.id = media, id
	return f.url, f.err
}

func TestRating_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rating  Rating
		wantErr bool
	}{
		{"valid show", showRating(8), false},
		{"valid episode", episodeRating(7, 1, 2, "Cat's in the Bag..."), false},
		{"score too low", showRating(0), true},
		{"score too high", showRating(11), true},
		{"missing show", Rating{Type: "show", Score: 5}, true},
		{"season without season", Rating{Type: "season", Score: 5, Show: breakingBad()}, true},
		{"episode without episode", Rating{Type: "episode", Score: 5, Show: breakingBad()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rating.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got: %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidRating) {
				t.Errorf("Expected ErrInvalidRating, got: %v", err)
			}
		})
	}
}

func TestRating_ValidateMovie(t *testing.T) {
	err := Rating{Type: "movie", Score: 9}.Validate()
	var classErr *ClassificationError
	if !errors.As(err, &classErr) {
		t.Fatalf("Expected ClassificationError, got: %v", err)
	}
	if classErr.Type != "movie" {
		t.Errorf("Expected type 'movie', got: %s", classErr.Type)
	}
}

func TestRating_RatedAtTime(t *testing.T) {
	got, err := showRating(8).RatedAtTime()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got.Hour() != 10 || got.Day() != 1 {
		t.Errorf("Unexpected time: %v", got)
	}
}

func TestTitle(t *testing.T) {
	season := Rating{Type: "season", Score: 6, Show: breakingBad(), Season: &Season{Number: 3}}
	noYear := showRating(8)
	noYear.Show.Year = 0

	tests := []struct {
		name   string
		rating Rating
		want   string
	}{
		{"show", showRating(8), "Breaking Bad (2008)"},
		{"season", season, "Breaking Bad (2008), Season 3"},
		{"episode", episodeRating(7, 1, 2, "Cat's in the Bag..."), "Breaking Bad (2008), Season 1, Ep. 2 'Cat's in the Bag...'"},
		{"episode without title", episodeRating(7, 1, 2, ""), "Breaking Bad (2008), Season 1, Ep. 2"},
		{"show without year", noYear, "Breaking Bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.rating); got != tt.want {
				t.Errorf("Expected %q, got: %q", tt.want, got)
			}
		})
	}
}
