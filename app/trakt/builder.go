package trakt

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/lysyi3m/filmhook/app/discord"
	"github.com/lysyi3m/filmhook/app/tmdb"
)

const WebURL = "https://trakt.tv"

type PosterSource interface {
	Poster(ctx context.Context, media tmdb.Media, id int) (string, error)
}

type Builder struct {
	posters PosterSource
}

// NewBuilder returns a Builder. posters may be nil, in which case embeds carry no image.
func NewBuilder(posters PosterSource) *Builder {
	return &Builder{posters: posters}
}

// Build turns one rating of user into an embed.
func (b *Builder) Build(ctx context.Context, user string, r Rating) (discord.Embed, error) {
	if err := r.Validate(); err != nil {
		return discord.Embed{}, err
	}

	title := Title(r)
	score := fmt.Sprintf("%d/10", r.Score)

	fields := []discord.Field{{Name: "Show", Value: r.Show.Title}}
	if r.Show.Year > 0 {
		fields = append(fields, discord.Field{Name: "Year", Value: strconv.Itoa(r.Show.Year)})
	}
	switch r.Kind() {
	case KindSeason:
		fields = append(fields, discord.Field{Name: "Season", Value: strconv.Itoa(r.Season.Number)})
	case KindEpisode:
		fields = append(fields,
			discord.Field{Name: "Season", Value: strconv.Itoa(r.Episode.Season)},
			discord.Field{Name: "Episode", Value: episodeLabel(r.Episode)},
		)
	}
	fields = append(fields, discord.Field{Name: "Rating", Value: score})

	return discord.Embed{
		Title:       title,
		Description: fmt.Sprintf("%s rated %s **%s** on Trakt.tv", user, title, score),
		URL:         fmt.Sprintf("%s/users/%s/ratings", WebURL, url.PathEscape(user)),
		Image:       discord.NewImage(b.poster(ctx, r)),
		Fields:      fields,
		Timestamp:   r.RatedAt,
	}, nil
}

// poster keys off the parent show for every kind. Failures leave the embed without image.
func (b *Builder) poster(ctx context.Context, r Rating) string {
	if b.posters == nil || r.Show.IDs.TMDB == 0 {
		return ""
	}
	poster, err := b.posters.Poster(ctx, tmdb.MediaTV, r.Show.IDs.TMDB)
	if err != nil {
		slog.Debug("Poster lookup failed, omitting image", "show", r.Show.Title, "tmdb_id", r.Show.IDs.TMDB, "error", err)
		return ""
	}
	return poster
}

// Title renders "Show (2008)", "Show (2008), Season 1" or
// "Show (2008), Season 1, Ep. 2 'Name'".
func Title(r Rating) string {
	title := r.Show.Title
	if r.Show.Year > 0 {
		title = fmt.Sprintf("%s (%d)", title, r.Show.Year)
	}
	switch r.Kind() {
	case KindSeason:
		title = fmt.Sprintf("%s, Season %d", title, r.Season.Number)
	case KindEpisode:
		title = fmt.Sprintf("%s, Season %d, Ep. %s", title, r.Episode.Season, episodeLabel(r.Episode))
	}
	return title
}

func episodeLabel(e *Episode) string {
	if e.Title == "" {
		return strconv.Itoa(e.Number)
	}
	return fmt.Sprintf("%d '%s'", e.Number, e.Title)
}
