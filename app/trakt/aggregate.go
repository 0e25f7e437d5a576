package trakt

import (
	"context"
	"fmt"

	"github.com/lysyi3m/filmhook/app/batch"
	"github.com/lysyi3m/filmhook/app/discord"
)

const DefaultMaxEmbeds = 3

type EmbedBuilder interface {
	Build(ctx context.Context, user string, r Rating) (discord.Embed, error)
}

// Aggregator turns one user's ratings into a single webhook payload.
type Aggregator struct {
	builder     EmbedBuilder
	maxEmbeds   int
	concurrency int
}

func NewAggregator(builder EmbedBuilder, maxEmbeds, concurrency int) *Aggregator {
	if maxEmbeds <= 0 {
		maxEmbeds = DefaultMaxEmbeds
	}
	return &Aggregator{
		builder:     builder,
		maxEmbeds:   min(maxEmbeds, discord.MaxEmbeds),
		concurrency: concurrency,
	}
}

func (a *Aggregator) Build(ctx context.Context, account string, ratings []Rating) (batch.Result, error) {
	var result batch.Result

	var invalid []error
	candidates := make([]Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.Kind() == "" {
			result.Skipped++
			continue
		}
		if err := r.Validate(); err != nil {
			invalid = append(invalid, err)
			continue
		}
		candidates = append(candidates, r)
	}

	build := func(ctx context.Context, r Rating) (discord.Embed, error) {
		return a.builder.Build(ctx, account, r)
	}
	outcomes, err := batch.Build(ctx, candidates, a.maxEmbeds, a.concurrency, build)
	if err != nil {
		return result, err
	}

	shows := discord.Count{Singular: "show", Plural: "shows"}
	seasons := discord.Count{Singular: "season", Plural: "seasons"}
	episodes := discord.Count{Singular: "episode", Plural: "episodes"}
	for i, outcome := range outcomes {
		if outcome.Status == batch.Failed {
			continue
		}
		switch candidates[i].Kind() {
		case KindShow:
			shows.N++
		case KindSeason:
			seasons.N++
		case KindEpisode:
			episodes.N++
		}
	}
	result.Counts = []discord.Count{shows, seasons, episodes}
	result.Errors = append(invalid, batch.Errors(outcomes)...)

	if result.Total() == 0 {
		return result, batch.ErrNothingToPost
	}

	result.Payload = &discord.Payload{
		Content: fmt.Sprintf("%s rated %s on Trakt.tv:", account, discord.JoinCounts(result.Counts...)),
		Embeds:  batch.Embeds(outcomes),
	}
	return result, nil
}
