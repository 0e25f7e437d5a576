package letterboxd

import (
	"strings"
	"testing"
	"time"
)

const feedFixture = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:letterboxd="https://letterboxd.com" xmlns:tmdb="https://themoviedb.org">
  <channel>
    <title>Letterboxd - Sam</title>
    <link>https://letterboxd.com/sam/</link>
    <description>Letterboxd - Sam</description>
    <item>
      <title>Heat, 1995 - ★★★★½</title>
      <link>https://letterboxd.com/sam/film/heat-1995/</link>
      <guid isPermaLink="false">letterboxd-review-555</guid>
      <pubDate>Sat, 2 Mar 2024 10:15:00 +1300</pubDate>
      <letterboxd:watchedDate>2024-03-01</letterboxd:watchedDate>
      <letterboxd:rewatch>Yes</letterboxd:rewatch>
      <letterboxd:filmTitle>Heat</letterboxd:filmTitle>
      <letterboxd:filmYear>1995</letterboxd:filmYear>
      <letterboxd:memberRating>4.5</letterboxd:memberRating>
      <tmdb:movieId>949</tmdb:movieId>
      <description><![CDATA[ <p><img src="https://a.ltrbxd.com/heat.jpg"/></p> <p>Still the best shootout.</p> ]]></description>
      <dc:creator>Sam</dc:creator>
    </item>
    <item>
      <title>Favourites</title>
      <link>https://letterboxd.com/sam/list/favourites/</link>
      <guid isPermaLink="false">letterboxd-list-77</guid>
      <pubDate>Fri, 1 Mar 2024 08:00:00 +0000</pubDate>
      <description><![CDATA[ <p>Some films.</p><ul><li><a href="https://letterboxd.com/film/heat-1995/">Heat</a></li></ul> ]]></description>
      <dc:creator>Sam</dc:creator>
    </item>
  </channel>
</rss>`

func TestParser_Run(t *testing.T) {
	entries, err := NewParser().Run([]byte(feedFixture))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	review := entries[0]
	if review.ID != "letterboxd-review-555" {
		t.Errorf("Expected ID 'letterboxd-review-555', got: %s", review.ID)
	}
	if review.Author != "Sam" {
		t.Errorf("Expected author 'Sam', got: %s", review.Author)
	}
	if review.Title != "Heat, 1995 - ★★★★½" {
		t.Errorf("Unexpected title: %s", review.Title)
	}
	if review.Rewatch != "Yes" {
		t.Errorf("Expected rewatch 'Yes', got: %s", review.Rewatch)
	}
	if review.MemberRating != "4.5" {
		t.Errorf("Expected member rating '4.5', got: %s", review.MemberRating)
	}
	if review.WatchedDate != "2024-03-01" {
		t.Errorf("Expected watched date '2024-03-01', got: %s", review.WatchedDate)
	}
	if review.FilmTitle != "Heat" || review.FilmYear != "1995" {
		t.Errorf("Unexpected film: %s (%s)", review.FilmTitle, review.FilmYear)
	}
	if review.TMDBMovieID != 949 {
		t.Errorf("Expected TMDB id 949, got: %d", review.TMDBMovieID)
	}
	if !strings.Contains(review.Summary, "Still the best shootout.") {
		t.Errorf("Expected summary HTML, got: %s", review.Summary)
	}

	want := time.Date(2024, 3, 1, 21, 15, 0, 0, time.UTC)
	if !review.PublishedAt.Equal(want) || review.PublishedAt.Location() != time.UTC {
		t.Errorf("Expected published %v in UTC, got: %v", want, review.PublishedAt)
	}

	list := entries[1]
	if list.MemberRating != "" || list.TMDBMovieID != 0 {
		t.Errorf("Expected list entry without film extensions, got: %+v", list)
	}
	if Classify(list) != KindList {
		t.Errorf("Expected list kind, got: %q", Classify(list))
	}
}

func TestParser_RunInvalid(t *testing.T) {
	if _, err := NewParser().Run([]byte("not a feed")); err == nil {
		t.Error("Expected error for invalid feed")
	}
}
