package tasks

import (
	"context"
	"sync"

	"github.com/lysyi3m/filmhook/app/database"
	"github.com/lysyi3m/filmhook/app/discord"
	"github.com/lysyi3m/filmhook/app/letterboxd"
	"github.com/lysyi3m/filmhook/app/trakt"
)

type MockFeedFetcher struct {
	entries map[string][]letterboxd.Entry
	err     error
}

func (m *MockFeedFetcher) Fetch(ctx context.Context, username string) ([]letterboxd.Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[username], nil
}

type MockRatingsFetcher struct {
	ratings map[string][]trakt.Rating
	err     error
}

func (m *MockRatingsFetcher) Ratings(ctx context.Context, user string) ([]trakt.Rating, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ratings[user], nil
}

type MockSender struct {
	mu       sync.Mutex
	payloads []*discord.Payload
	urls     []string
	status   int
	err      error
}

func (m *MockSender) Send(ctx context.Context, webhookURL string, payload *discord.Payload) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	m.urls = append(m.urls, webhookURL)
	return m.status, m.err
}

type MockDeliveryRepository struct {
	mu         sync.Mutex
	deliveries []database.Delivery
}

func (m *MockDeliveryRepository) Record(ctx context.Context, delivery *database.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, *delivery)
	return nil
}

func (m *MockDeliveryRepository) List(ctx context.Context, source string, limit int) ([]database.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]database.Delivery(nil), m.deliveries...), nil
}

func (m *MockDeliveryRepository) Stats(ctx context.Context) (*database.DeliveryStats, error) {
	return &database.DeliveryStats{Total: len(m.deliveries)}, nil
}
