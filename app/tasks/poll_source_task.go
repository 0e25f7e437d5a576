package tasks

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/filmhook/app/batch"
	"github.com/lysyi3m/filmhook/app/database"
	"github.com/lysyi3m/filmhook/app/letterboxd"
	"github.com/lysyi3m/filmhook/app/source"
	"github.com/lysyi3m/filmhook/app/trakt"
)

// errFetch marks failures that happen before anything was sent for an account.
var errFetch = errors.New("fetch failed")

type PollSourceTask struct {
	Task
	SourceConfig *source.Config
	pipeline     *Pipeline
}

func NewPollSourceTask(sourceConfig *source.Config, pipeline *Pipeline) *PollSourceTask {
	return &PollSourceTask{
		Task:         NewTask(TaskTypePollSource, sourceConfig.Name),
		SourceConfig: sourceConfig,
		pipeline:     pipeline,
	}
}

// Execute polls every account of the source. It fails, and is retried, only when
// no account could be fetched, so a retry never re-posts a delivered batch.
func (t *PollSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	var fetchErrs []error
	delivered := 0
	for _, username := range t.SourceConfig.Usernames {
		ok, err := t.pollAccount(ctx, username)
		if errors.Is(err, errFetch) {
			slog.Warn("Failed to fetch account", "source", t.SourceName, "account", username, "error", err)
			fetchErrs = append(fetchErrs, err)
			continue
		}
		if err != nil {
			slog.Error("Failed to poll account", "source", t.SourceName, "account", username, "error", err)
			continue
		}
		if ok {
			delivered++
		}
	}

	if len(fetchErrs) > 0 && len(fetchErrs) == len(t.SourceConfig.Usernames) {
		return fmt.Errorf("failed to fetch any account: %w", errors.Join(fetchErrs...))
	}

	slog.Info("Task completed",
		"type", "PollSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"accounts", len(t.SourceConfig.Usernames),
		"fetch_errors", len(fetchErrs),
		"delivered", delivered)

	return nil
}

// pollAccount reports whether a payload was delivered for username.
func (t *PollSourceTask) pollAccount(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, t.SourceConfig.Settings.TimeoutDuration())
	defer cancel()

	result, err := t.build(ctx, username)
	if errors.Is(err, batch.ErrNothingToPost) {
		slog.Debug("Nothing to post", "source", t.SourceName, "account", username, "skipped", result.Skipped, "errors", len(result.Errors))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, buildErr := range result.Errors {
		slog.Warn("Entry skipped", "source", t.SourceName, "account", username, "error", buildErr)
	}

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		if data, err := json.MarshalIndent(result.Payload, "", "  "); err == nil {
			slog.Debug("Webhook payload", "source", t.SourceName, "account", username, "payload", string(data))
		}
	}

	status, sendErr := t.pipeline.Sender.Send(ctx, t.SourceConfig.WebhookURL, result.Payload)
	if sendErr != nil {
		slog.Error("Webhook delivery failed", "source", t.SourceName, "account", username, "status", status, "error", sendErr)
	} else {
		slog.Info("Webhook delivered", "source", t.SourceName, "account", username, "status", status, "embeds", len(result.Payload.Embeds))
	}

	t.record(ctx, username, result, status, sendErr)
	return sendErr == nil, nil
}

func (t *PollSourceTask) build(ctx context.Context, username string) (batch.Result, error) {
	now := t.pipeline.now()
	window := t.SourceConfig.Settings.WindowDuration()
	settings := t.SourceConfig.Settings

	switch t.SourceConfig.Kind {
	case source.KindLetterboxd:
		entries, err := t.pipeline.Feeds.Fetch(ctx, username)
		if err != nil {
			return batch.Result{}, fmt.Errorf("%w: %w", errFetch, err)
		}
		recent := RecentEntries(entries, now, window)
		if len(recent) == 0 {
			return batch.Result{}, batch.ErrNothingToPost
		}
		builder := letterboxd.NewBuilder(t.pipeline.Enricher)
		account := cmp.Or(recent[0].Author, username)
		return letterboxd.NewAggregator(builder, settings.MaxEmbeds, settings.Concurrency).Build(ctx, account, recent)

	case source.KindTrakt:
		ratings, err := t.pipeline.Ratings.Ratings(ctx, username)
		if err != nil {
			return batch.Result{}, fmt.Errorf("%w: %w", errFetch, err)
		}
		recent := RecentRatings(ratings, now, window)
		if len(recent) == 0 {
			return batch.Result{}, batch.ErrNothingToPost
		}
		var posters trakt.PosterSource
		if t.pipeline.Enricher != nil {
			posters = t.pipeline.Enricher
		}
		builder := trakt.NewBuilder(posters)
		return trakt.NewAggregator(builder, settings.MaxEmbeds, settings.Concurrency).Build(ctx, username, recent)

	default:
		return batch.Result{}, fmt.Errorf("unsupported source kind %q", t.SourceConfig.Kind)
	}
}

func (t *PollSourceTask) record(ctx context.Context, username string, result batch.Result, status int, sendErr error) {
	if t.pipeline.Deliveries == nil {
		return
	}

	delivery := &database.Delivery{
		Source:       t.SourceName,
		Account:      username,
		Content:      result.Payload.Content,
		EmbedCount:   len(result.Payload.Embeds),
		EntryCount:   result.Total(),
		SkippedCount: result.Skipped + len(result.Errors),
		StatusCode:   status,
		CreatedAt:    t.pipeline.now(),
	}
	if sendErr != nil {
		delivery.Error = sendErr.Error()
	}

	// The request context may already be past its deadline.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := t.pipeline.Deliveries.Record(recordCtx, delivery); err != nil {
		slog.Error("Failed to record delivery", "source", t.SourceName, "account", username, "error", err)
	}
}
