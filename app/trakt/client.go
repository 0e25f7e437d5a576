package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultAPIURL = "https://api.trakt.tv"
	apiVersion    = "2"
)

// Client reads public ratings from the Trakt API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	clientID   string
	userAgent  string
}

func NewClient(httpClient *http.Client, apiURL, clientID, userAgent string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		clientID:   clientID,
		userAgent:  userAgent,
	}
}

// Ratings returns every rating of user, newest first as served by Trakt.
func (c *Client) Ratings(ctx context.Context, user string) ([]Rating, error) {
	endpoint := fmt.Sprintf("%s/users/%s/ratings/all/", c.apiURL, url.PathEscape(user))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("trakt-api-version", apiVersion)
	req.Header.Set("trakt-api-key", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ratings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var ratings []Rating
	if err := json.NewDecoder(resp.Body).Decode(&ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, nil
}
