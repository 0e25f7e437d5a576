package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/filmhook/app/database"
	"github.com/lysyi3m/filmhook/app/discord"
	"github.com/lysyi3m/filmhook/app/letterboxd"
	"github.com/lysyi3m/filmhook/app/trakt"
)

// TaskSchedulerInterface is what the API needs to trigger polls out of schedule.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	NextRun() time.Time
}

type FeedFetcher interface {
	Fetch(ctx context.Context, username string) ([]letterboxd.Entry, error)
}

type RatingsFetcher interface {
	Ratings(ctx context.Context, user string) ([]trakt.Rating, error)
}

type WebhookSender interface {
	Send(ctx context.Context, webhookURL string, payload *discord.Payload) (int, error)
}

// Pipeline holds the collaborators shared by every poll task.
type Pipeline struct {
	Feeds      FeedFetcher
	Ratings    RatingsFetcher
	Enricher   letterboxd.Enricher // nil disables TMDB lookups
	Sender     WebhookSender
	Deliveries database.DeliveryRepository // nil disables the delivery log
	Now        func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
