package trakt

import (
	"errors"
	"fmt"
	"time"
)

type Kind string

const (
	KindShow    Kind = "show"
	KindSeason  Kind = "season"
	KindEpisode Kind = "episode"
)

// Rating is one item of the /users/{user}/ratings/all response.
type Rating struct {
	RatedAt string   `json:"rated_at"`
	Score   int      `json:"rating"`
	Type    string   `json:"type"`
	Show    *Show    `json:"show,omitempty"`
	Season  *Season  `json:"season,omitempty"`
	Episode *Episode `json:"episode,omitempty"`
}

type Show struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	IDs   IDs    `json:"ids"`
}

type IDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug"`
	IMDB  string `json:"imdb"`
	TMDB  int    `json:"tmdb"`
	TVDB  int    `json:"tvdb"`
}

type Season struct {
	Number int `json:"number"`
}

type Episode struct {
	Season int    `json:"season"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

var ErrInvalidRating = errors.New("invalid rating")

// Kind returns the rating kind, or "" for kinds that are not posted (movies, lists).
func (r Rating) Kind() Kind {
	switch Kind(r.Type) {
	case KindShow, KindSeason, KindEpisode:
		return Kind(r.Type)
	default:
		return ""
	}
}

// RatedAtTime parses RatedAt.
func (r Rating) RatedAtTime() (time.Time, error) {
	return time.Parse(time.RFC3339, r.RatedAt)
}

// Validate checks that the rating carries everything its kind needs.
func (r Rating) Validate() error {
	kind := r.Kind()
	if kind == "" {
		return &ClassificationError{Type: r.Type}
	}
	if r.Show == nil || r.Show.Title == "" {
		return fmt.Errorf("%w: %s rating has no show title", ErrInvalidRating, kind)
	}
	if r.Score < 1 || r.Score > 10 {
		return fmt.Errorf("%w: score %d out of range", ErrInvalidRating, r.Score)
	}
	if kind == KindSeason && r.Season == nil {
		return fmt.Errorf("%w: season rating has no season", ErrInvalidRating)
	}
	if kind == KindEpisode && r.Episode == nil {
		return fmt.Errorf("%w: episode rating has no episode", ErrInvalidRating)
	}
	return nil
}

// ClassificationError reports a rating type that is not posted.
type ClassificationError struct {
	Type string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unsupported trakt rating type %q", e.Type)
}
