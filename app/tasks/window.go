package tasks

import (
	"log/slog"
	"time"

	"github.com/lysyi3m/filmhook/app/letterboxd"
	"github.com/lysyi3m/filmhook/app/trakt"
)

// withinWindow reports whether t is less than window before now.
func withinWindow(t, now time.Time, window time.Duration) bool {
	return !t.IsZero() && now.Sub(t) < window
}

// RecentEntries keeps the feed entries published within window of now, in feed order.
func RecentEntries(entries []letterboxd.Entry, now time.Time, window time.Duration) []letterboxd.Entry {
	recent := make([]letterboxd.Entry, 0, len(entries))
	for _, entry := range entries {
		if withinWindow(entry.PublishedAt, now, window) {
			recent = append(recent, entry)
		}
	}
	return recent
}

// RecentRatings keeps the ratings made within window of now. Ratings with an
// unparseable rated_at are dropped.
func RecentRatings(ratings []trakt.Rating, now time.Time, window time.Duration) []trakt.Rating {
	recent := make([]trakt.Rating, 0, len(ratings))
	for _, r := range ratings {
		ratedAt, err := r.RatedAtTime()
		if err != nil {
			slog.Debug("Dropping rating with invalid rated_at", "rated_at", r.RatedAt, "error", err)
			continue
		}
		if withinWindow(ratedAt, now, window) {
			recent = append(recent, r)
		}
	}
	return recent
}
