package letterboxd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/filmhook/app/discord"
	"github.com/lysyi3m/filmhook/app/markup"
	"github.com/lysyi3m/filmhook/app/tmdb"
)

// Enricher supplies data the feed summary leaves out.
type Enricher interface {
	Poster(ctx context.Context, media tmdb.Media, id int) (string, error)
	ListItemDescription(ctx context.Context, pageURL string) (string, error)
}

var errNoEnricher = errors.New("no metadata enricher configured")

// Classify determines the kind of an entry from its GUID.
func Classify(entry Entry) Kind {
	switch {
	case strings.Contains(entry.ID, "-list"):
		return KindList
	case strings.Contains(entry.ID, "-review"):
		return KindReview
	case strings.Contains(entry.ID, "-watch"):
		return KindWatch
	default:
		return KindUnknown
	}
}

type Builder struct {
	enricher Enricher
}

// NewBuilder returns a Builder. enricher may be nil, in which case posters are
// never looked up and list items without a description fail.
func NewBuilder(enricher Enricher) *Builder {
	return &Builder{enricher: enricher}
}

// Build turns one entry into an embed.
func (b *Builder) Build(ctx context.Context, entry Entry) (discord.Embed, error) {
	switch Classify(entry) {
	case KindWatch, KindReview:
		return b.buildFilm(ctx, entry)
	case KindList:
		return b.buildList(ctx, entry)
	default:
		return discord.Embed{}, &ClassificationError{ID: entry.ID}
	}
}

func (b *Builder) buildFilm(ctx context.Context, entry Entry) (discord.Embed, error) {
	film, err := ExtractFilm(entry)
	if err != nil {
		return discord.Embed{}, fmt.Errorf("entry %s: %w", entry.ID, err)
	}

	verb := "Watched"
	if entry.Rewatch == "Yes" {
		verb = "Rewatched"
	}
	description := fmt.Sprintf("%s %s (%s)", verb, entry.FilmTitle, entry.FilmYear)
	if film.WatchDate != "" {
		description += " on " + film.WatchDate
	}

	poster := film.PosterURL
	if poster == "" && entry.TMDBMovieID > 0 && b.enricher != nil {
		poster, err = b.enricher.Poster(ctx, tmdb.MediaMovie, entry.TMDBMovieID)
		if err != nil {
			slog.Debug("Poster lookup failed, omitting image", "entry", entry.ID, "tmdb_id", entry.TMDBMovieID, "error", err)
			poster = ""
		}
	}

	fields := make([]discord.Field, 0, 2)
	if film.Stars != "" {
		fields = append(fields, discord.Field{Name: "Rating", Value: film.Stars})
	}
	if film.Review != "" {
		fields = append(fields, discord.Field{Name: "Review", Value: markup.Truncate("> "+film.Review, discord.MaxFieldValue)})
	}

	return discord.Embed{
		Title:       entry.Title,
		Description: description,
		URL:         entry.Link,
		Image:       discord.NewImage(poster),
		Fields:      fields,
		Timestamp:   discord.FormatTimestamp(entry.PublishedAt),
	}, nil
}

func (b *Builder) buildList(ctx context.Context, entry Entry) (discord.Embed, error) {
	list, err := ExtractList(entry)
	if err != nil {
		return discord.Embed{}, fmt.Errorf("entry %s: %w", entry.ID, err)
	}

	fields := make([]discord.Field, 0, len(list.Items)+1)
	for i, item := range list.Items {
		value, err := b.itemDescription(ctx, item)
		if err != nil {
			return discord.Embed{}, fmt.Errorf("entry %s: list item %q: %w", entry.ID, item.Title, err)
		}

		name := item.Title
		if list.Ordered {
			name = fmt.Sprintf("%d. %s", i+1, item.Title)
		}
		fields = append(fields, discord.Field{Name: name, Value: value})
	}

	total := len(list.Items)
	if list.Overflow > 0 {
		fields = append(fields, discord.Field{
			Name:  list.OverflowText,
			Value: fmt.Sprintf("[View the full list on %s.](%s)", list.Source, entry.Link),
		})
		total += list.Overflow - 1
	}

	return discord.Embed{
		Title:       entry.Title,
		Description: strings.TrimSpace(fmt.Sprintf("List of %d movies:\n\n%s", total, list.Description)),
		URL:         entry.Link,
		Fields:      fields,
		Timestamp:   discord.FormatTimestamp(entry.PublishedAt),
	}, nil
}

// itemDescription falls back to TMDB when the list item carries no notes.
func (b *Builder) itemDescription(ctx context.Context, item ListItem) (string, error) {
	if strings.TrimSpace(item.Description) != "" {
		return item.Description, nil
	}
	if b.enricher == nil {
		return "", errNoEnricher
	}

	description, err := b.enricher.ListItemDescription(ctx, item.Link)
	if err != nil {
		return "", err
	}
	description = markup.Truncate(strings.TrimSpace(description), discord.MaxFieldValue)
	if description == "" {
		return "", errors.New("empty description")
	}
	return description, nil
}
