package letterboxd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/filmhook/app/tmdb"
)

type fakeEnricher struct {
	poster       string
	posterErr    error
	descriptions map[string]string
	posterCalls  int
}

func (f *fakeEnricher) Poster(ctx context.Context, media tmdb.Media, id int) (string, error) {
	f.posterCalls++
	return f.poster, f.posterErr
}

func (f *fakeEnricher) ListItemDescription(ctx context.Context, pageURL string) (string, error) {
	d, ok := f.descriptions[pageURL]
	if !ok {
		return "", errors.New("not found")
	}
	return d, nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		id   string
		want Kind
	}{
		{"letterboxd-watch-1", KindWatch},
		{"letterboxd-review-2", KindReview},
		{"letterboxd-list-3", KindList},
		{"letterboxd-story-4", KindUnknown},
	}

	for _, tt := range tests {
		if got := Classify(Entry{ID: tt.id}); got != tt.want {
			t.Errorf("Classify(%q): expected %q, got: %q", tt.id, tt.want, got)
		}
	}
}

func TestBuilder_RewatchWithoutReview(t *testing.T) {
	entry := Entry{
		ID:          "letterboxd-watch-1",
		Title:       "A Movie, 2020",
		Link:        "https://letterboxd.com/sam/film/a-movie/",
		PublishedAt: time.Date(2024, 3, 2, 9, 30, 15, 0, time.FixedZone("NZDT", 13*3600)),
		Rewatch:     "Yes",
		WatchedDate: "2024-03-01",
		FilmTitle:   "A Movie",
		FilmYear:    "2020",
		Summary:     `<p><img src="https://a.ltrbxd.com/a.jpg"/></p><p>Watched on Friday March 1, 2024.</p>`,
	}

	embed, err := NewBuilder(nil).Build(context.Background(), entry)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if embed.Description != "Rewatched A Movie (2020) on Friday March 01, 2024" {
		t.Errorf("Unexpected description: %q", embed.Description)
	}
	if embed.Title != entry.Title || embed.URL != entry.Link {
		t.Errorf("Unexpected title or url: %q %q", embed.Title, embed.URL)
	}
	if len(embed.Fields) != 0 {
		t.Errorf("Expected no fields, got: %+v", embed.Fields)
	}
	if embed.Image == nil || embed.Image.URL != "https://a.ltrbxd.com/a.jpg" {
		t.Errorf("Unexpected image: %+v", embed.Image)
	}
	if embed.Timestamp != "2024-03-01T20:30:15Z" {
		t.Errorf("Expected UTC timestamp, got: %q", embed.Timestamp)
	}
}

func TestBuilder_ReviewFields(t *testing.T) {
	entry := Entry{
		ID:           "letterboxd-review-2",
		Title:        "Heat, 1995 - ★★★★½",
		Rewatch:      "No",
		MemberRating: "4.5",
		FilmTitle:    "Heat",
		FilmYear:     "1995",
		Summary:      `<p><img src="https://a.ltrbxd.com/heat.jpg"/></p><p>Still the best shootout.</p>`,
	}

	embed, err := NewBuilder(nil).Build(context.Background(), entry)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if embed.Description != "Watched Heat (1995)" {
		t.Errorf("Unexpected description: %q", embed.Description)
	}
	if len(embed.Fields) != 2 {
		t.Fatalf("Expected 2 fields, got: %d", len(embed.Fields))
	}
	if embed.Fields[0].Name != "Rating" || embed.Fields[0].Value != "★★★★½" {
		t.Errorf("Unexpected rating field: %+v", embed.Fields[0])
	}
	if embed.Fields[1].Name != "Review" || embed.Fields[1].Value != "> Still the best shootout." {
		t.Errorf("Unexpected review field: %+v", embed.Fields[1])
	}
	if embed.Timestamp != "" {
		t.Errorf("Expected no timestamp for zero time, got: %q", embed.Timestamp)
	}
}

func TestBuilder_PosterFallback(t *testing.T) {
	entry := Entry{
		ID:          "letterboxd-watch-3",
		TMDBMovieID: 949,
		Summary:     `<p>Watched on Friday March 1, 2024.</p>`,
	}

	enricher := &fakeEnricher{poster: "https://image.tmdb.org/heat.jpg"}
	embed, err := NewBuilder(enricher).Build(context.Background(), entry)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if embed.Image == nil || embed.Image.URL != enricher.poster {
		t.Errorf("Expected enriched poster, got: %+v", embed.Image)
	}

	enricher = &fakeEnricher{posterErr: errors.New("no posters")}
	embed, err = NewBuilder(enricher).Build(context.Background(), entry)
	if err != nil {
		t.Fatalf("Expected poster failure to be tolerated, got: %v", err)
	}
	if embed.Image != nil {
		t.Errorf("Expected image to be omitted, got: %+v", embed.Image)
	}
}

func TestBuilder_ListWithOverflow(t *testing.T) {
	entry := Entry{
		ID:          "letterboxd-list-4",
		Title:       "Favourites",
		Link:        "https://letterboxd.com/sam/list/favourites/",
		PublishedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Summary: `
			<p>Films that made me.</p>
			<ol>
				<li><a href="https://letterboxd.com/film/heat-1995/">Heat</a><p>Best shootout.</p></li>
				<li><a href="https://letterboxd.com/film/alien/">Alien</a></li>
				<li><a href="https://letterboxd.com/film/ran/">Ran</a><p>Epic.</p></li>
			</ol>
			<p>...plus 2 more. View the full list on Letterboxd.</p>`,
	}

	enricher := &fakeEnricher{descriptions: map[string]string{
		"https://letterboxd.com/film/alien/": "In space.\n\nReleased on May 25, 1979",
	}}
	embed, err := NewBuilder(enricher).Build(context.Background(), entry)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.HasPrefix(embed.Description, "List of 4 movies:") {
		t.Errorf("Expected 'List of 4 movies:' prefix, got: %q", embed.Description)
	}
	if embed.Description != "List of 4 movies:\n\nFilms that made me." {
		t.Errorf("Unexpected description: %q", embed.Description)
	}
	if len(embed.Fields) != 4 {
		t.Fatalf("Expected 4 fields, got: %d", len(embed.Fields))
	}

	wantNames := []string{"1. Heat", "2. Alien", "3. Ran", "...plus 2 more."}
	for i, name := range wantNames {
		if embed.Fields[i].Name != name {
			t.Errorf("Field %d: expected name %q, got: %q", i, name, embed.Fields[i].Name)
		}
	}
	if embed.Fields[1].Value != "In space.\n\nReleased on May 25, 1979" {
		t.Errorf("Expected enriched description, got: %q", embed.Fields[1].Value)
	}
	if embed.Fields[3].Value != "[View the full list on Letterboxd.](https://letterboxd.com/sam/list/favourites/)" {
		t.Errorf("Unexpected overflow value: %q", embed.Fields[3].Value)
	}
	for _, f := range embed.Fields {
		if strings.TrimSpace(f.Value) == "" {
			t.Errorf("Field %q has an empty value", f.Name)
		}
	}
}

func TestBuilder_UnorderedListWithoutDescription(t *testing.T) {
	entry := Entry{
		ID:      "letterboxd-list-5",
		Summary: `<ul><li><a href="/film/x/">X</a><p>Fine.</p></li><li><a href="/film/y/">Y</a><p>Good.</p></li></ul>`,
	}

	embed, err := NewBuilder(nil).Build(context.Background(), entry)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if embed.Description != "List of 2 movies:" {
		t.Errorf("Expected trimmed description, got: %q", embed.Description)
	}
	if embed.Fields[0].Name != "X" || embed.Fields[1].Name != "Y" {
		t.Errorf("Expected unnumbered names, got: %q %q", embed.Fields[0].Name, embed.Fields[1].Name)
	}
}

func TestBuilder_ListItemLookupFailure(t *testing.T) {
	entry := Entry{
		ID:      "letterboxd-list-6",
		Summary: `<ul><li><a href="https://letterboxd.com/film/unknown/">Unknown</a></li></ul>`,
	}

	_, err := NewBuilder(&fakeEnricher{}).Build(context.Background(), entry)
	if err == nil {
		t.Fatal("Expected error when a list item description cannot be resolved")
	}

	_, err = NewBuilder(nil).Build(context.Background(), entry)
	if !errors.Is(err, errNoEnricher) {
		t.Errorf("Expected errNoEnricher, got: %v", err)
	}
}

func TestBuilder_Unrecognized(t *testing.T) {
	_, err := NewBuilder(nil).Build(context.Background(), Entry{ID: "letterboxd-story-1"})
	var classErr *ClassificationError
	if !errors.As(err, &classErr) {
		t.Errorf("Expected ClassificationError, got: %v", err)
	}
}
