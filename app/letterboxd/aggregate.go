package letterboxd

import (
	"context"
	"fmt"

	"github.com/lysyi3m/filmhook/app/batch"
	"github.com/lysyi3m/filmhook/app/discord"
)

const DefaultMaxEmbeds = 6

// EmbedBuilder is the part of Builder the aggregator needs.
type EmbedBuilder interface {
	Build(ctx context.Context, entry Entry) (discord.Embed, error)
}

// Aggregator turns one account's entries into a single webhook payload.
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

func (a *Aggregator) Build(ctx context.Context, account string, entries []Entry) (batch.Result, error) {
	var result batch.Result

	candidates := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if Classify(entry) == KindUnknown {
			result.Skipped++
			continue
		}
		candidates = append(candidates, entry)
	}

	outcomes, err := batch.Build(ctx, candidates, a.maxEmbeds, a.concurrency, a.builder.Build)
	if err != nil {
		return result, err
	}

	movies := discord.Count{Singular: "movie", Plural: "movies"}
	lists := discord.Count{Singular: "list", Plural: "lists"}
	for i, outcome := range outcomes {
		if outcome.Status == batch.Failed {
			continue
		}
		if Classify(candidates[i]) == KindList {
			lists.N++
		} else {
			movies.N++
		}
	}
	result.Counts = []discord.Count{movies, lists}
	result.Errors = batch.Errors(outcomes)

	if movies.N == 0 && lists.N == 0 {
		return result, batch.ErrNothingToPost
	}

	result.Payload = &discord.Payload{
		Content: summaryLine(account, movies, lists),
		Embeds:  batch.Embeds(outcomes),
	}
	return result, nil
}

func summaryLine(account string, movies, lists discord.Count) string {
	var phrases []string
	if movies.N > 0 {
		phrases = append(phrases, "logged "+movies.String())
	}
	if lists.N > 0 {
		phrases = append(phrases, "created "+lists.String())
	}
	return fmt.Sprintf("%s %s on Letterboxd:", account, discord.JoinPhrases(phrases...))
}
