package letterboxd

import (
	"fmt"
	"time"
)

// Entry is one item of a member's Letterboxd RSS feed.
type Entry struct {
	ID           string
	Author       string
	Title        string
	Link         string
	PublishedAt  time.Time
	Rewatch      string // "Yes" or "No"
	MemberRating string // empty when the member did not rate the film
	WatchedDate  string // YYYY-MM-DD
	FilmTitle    string
	FilmYear     string
	TMDBMovieID  int
	Summary      string // HTML fragment
}

type Kind string

const (
	KindUnknown Kind = ""
	KindWatch   Kind = "watch"
	KindReview  Kind = "review"
	KindList    Kind = "list"
)

// Film holds the fields extracted from a watch or review summary.
type Film struct {
	Review    string
	Stars     string
	WatchDate string
	PosterURL string
}

type List struct {
	Description string
	Ordered     bool
	Items       []ListItem

	// Overflow is the number of items the feed left out of the summary.
	Overflow     int
	OverflowText string // "...plus N more."
	Source       string
}

type ListItem struct {
	Title       string
	Link        string
	Description string
}

// ClassificationError reports an entry whose id matches no known kind.
type ClassificationError struct {
	ID string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unrecognized letterboxd entry %q", e.ID)
}
