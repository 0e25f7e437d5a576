package letterboxd

import (
	"bytes"
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const (
	letterboxdNamespace = "letterboxd"
	tmdbNamespace       = "tmdb"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses a Letterboxd RSS document into entries, in feed order.
func (p *Parser) Run(data []byte) ([]Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, p.normalizeItem(item))
	}
	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		ID:           cmp.Or(item.GUID, item.Link),
		Title:        strings.TrimSpace(item.Title),
		Link:         item.Link,
		Summary:      cmp.Or(item.Description, item.Content),
		Rewatch:      extensionValue(item.Extensions, letterboxdNamespace, "rewatch"),
		MemberRating: extensionValue(item.Extensions, letterboxdNamespace, "memberRating"),
		WatchedDate:  extensionValue(item.Extensions, letterboxdNamespace, "watchedDate"),
		FilmTitle:    extensionValue(item.Extensions, letterboxdNamespace, "filmTitle"),
		FilmYear:     extensionValue(item.Extensions, letterboxdNamespace, "filmYear"),
	}

	if item.PublishedParsed != nil {
		entry.PublishedAt = item.PublishedParsed.UTC()
	}

	if item.Author != nil {
		entry.Author = strings.TrimSpace(item.Author.Name)
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		entry.Author = strings.TrimSpace(item.Authors[0].Name)
	}

	if id, err := strconv.Atoi(extensionValue(item.Extensions, tmdbNamespace, "movieId")); err == nil {
		entry.TMDBMovieID = id
	}

	return entry
}

func extensionValue(extensions ext.Extensions, namespace, name string) string {
	values := extensions[namespace][name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}
