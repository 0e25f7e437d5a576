package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sender posts payloads to Discord webhook URLs.
type Sender struct {
	httpClient *http.Client
	userAgent  string
}

func NewSender(httpClient *http.Client, userAgent string) *Sender {
	return &Sender{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Send delivers payload and returns the HTTP status code of the webhook response.
func (s *Sender) Send(ctx context.Context, webhookURL string, payload *Payload) (int, error) {
	if payload == nil {
		return 0, fmt.Errorf("payload is nil")
	}
	if webhookURL == "" {
		return 0, fmt.Errorf("webhook URL is empty")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("webhook returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	return resp.StatusCode, nil
}
