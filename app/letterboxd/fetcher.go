package letterboxd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultBaseURL = "https://letterboxd.com"

// Fetcher downloads and parses member RSS feeds.
type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	baseURL    string
	userAgent  string
}

func NewFetcher(httpClient *http.Client, parser *Parser, baseURL, userAgent string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		httpClient: httpClient,
		parser:     parser,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

func (f *Fetcher) FeedURL(username string) string {
	return fmt.Sprintf("%s/%s/rss/", f.baseURL, url.PathEscape(username))
}

func (f *Fetcher) Fetch(ctx context.Context, username string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.FeedURL(username), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return f.parser.Run(data)
}
