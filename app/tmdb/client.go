// Package tmdb enriches notifications with posters and descriptions from
// The Movie Database, and resolves TMDB ids from Letterboxd film pages.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/filmhook/app/markup"
)

const (
	DefaultAPIURL       = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://www.themoviedb.org/t/p/original"
)

type Media string

const (
	MediaMovie Media = "movie"
	MediaTV    Media = "tv"
)

type Client struct {
	apiURL       string
	imageBaseURL string
	apiKey       string
	userAgent    string
	httpClient   *http.Client
}

func NewClient(httpClient *http.Client, apiURL, apiKey, userAgent string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		apiURL:       strings.TrimRight(apiURL, "/"),
		imageBaseURL: DefaultImageBaseURL,
		apiKey:       apiKey,
		userAgent:    userAgent,
		httpClient:   httpClient,
	}
}

type imagesResponse struct {
	Posters []struct {
		FilePath  string `json:"file_path"`
		VoteCount int    `json:"vote_count"`
	} `json:"posters"`
}

type movieResponse struct {
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
}

// Poster returns the URL of the most-voted poster for a movie or TV show.
func (c *Client) Poster(ctx context.Context, media Media, id int) (string, error) {
	var images imagesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/%d/images", media, id), &images); err != nil {
		return "", &LookupError{Op: "poster", ID: id, Err: err}
	}

	best := -1
	for i, poster := range images.Posters {
		if poster.FilePath == "" {
			continue
		}
		if best < 0 || poster.VoteCount > images.Posters[best].VoteCount {
			best = i
		}
	}
	if best < 0 {
		return "", &LookupError{Op: "poster", ID: id, Err: errors.New("no posters returned")}
	}

	return c.imageBaseURL + images.Posters[best].FilePath, nil
}

// MovieDescription returns the movie overview followed by its release date.
func (c *Client) MovieDescription(ctx context.Context, id int) (string, error) {
	var movie movieResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", id), &movie); err != nil {
		return "", &LookupError{Op: "description", ID: id, Err: err}
	}

	overview := strings.TrimSpace(movie.Overview)
	if overview == "" {
		return "", &LookupError{Op: "description", ID: id, Err: errors.New("response has no overview")}
	}
	released, err := time.Parse("2006-01-02", movie.ReleaseDate)
	if err != nil {
		return "", &LookupError{Op: "description", ID: id, Err: fmt.Errorf("invalid release date %q", movie.ReleaseDate)}
	}

	return fmt.Sprintf("%s\n\nReleased on %s", overview, released.Format("Jan 02, 2006")), nil
}

// ResolveMovieID scrapes a Letterboxd film page for its TMDB link.
func (c *Client) ResolveMovieID(ctx context.Context, pageURL string) (int, error) {
	data, err := c.get(ctx, pageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch film page: %w", err)
	}
	return MovieIDFromPage(string(data))
}

// ListItemDescription resolves the TMDB id behind a film page and fetches its description.
func (c *Client) ListItemDescription(ctx context.Context, pageURL string) (string, error) {
	id, err := c.ResolveMovieID(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return c.MovieDescription(ctx, id)
}

// MovieIDFromPage extracts the TMDB id from the anchor Letterboxd tracks as "TMDb".
func MovieIDFromPage(page string) (int, error) {
	root, err := markup.Parse(page)
	if err != nil {
		return 0, err
	}

	anchor, ok := root.FindFirst(`a[data-track-action="TMDb"]`)
	if !ok {
		return 0, &markup.ParseError{Context: "film page", Reason: "no TMDb link"}
	}
	href, _ := anchor.Attr("href")
	u, err := url.Parse(href)
	if err != nil {
		return 0, &markup.ParseError{Context: "film page", Reason: fmt.Sprintf("invalid TMDb link %q", href)}
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if id, err := strconv.Atoi(segment); err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, &markup.ParseError{Context: "film page", Reason: fmt.Sprintf("no id in TMDb link %q", href)}
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	u, err := url.Parse(c.apiURL + path)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	data, err := c.get(ctx, u.String())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: redact(req.URL), StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// redact drops the query so API keys never reach logs.
func redact(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	return clean.String()
}
