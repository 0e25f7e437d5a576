// Command preview builds the webhook payload for a saved Letterboxd feed or
// Trakt ratings response and prints it without delivering it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/filmhook/app/batch"
	"github.com/lysyi3m/filmhook/app/letterboxd"
	"github.com/lysyi3m/filmhook/app/source"
	"github.com/lysyi3m/filmhook/app/tasks"
	"github.com/lysyi3m/filmhook/app/tmdb"
	"github.com/lysyi3m/filmhook/app/trakt"
)

type options struct {
	Kind        string `long:"kind" choice:"letterboxd" choice:"trakt" default:"letterboxd" description:"Input format"`
	File        string `long:"file" short:"f" required:"true" description:"Saved RSS feed or ratings JSON, '-' for stdin"`
	Account     string `long:"account" short:"a" default:"someone" description:"Account name used in the summary line"`
	Window      int    `long:"window" default:"0" description:"Only include entries newer than this many minutes (0 keeps all)"`
	MaxEmbeds   int    `long:"max-embeds" default:"0" description:"Embed cap (0 uses the source default)"`
	Concurrency int    `long:"concurrency" default:"1" description:"Embeds built concurrently"`
	TMDBAPIKey  string `long:"tmdb-api-key" env:"TMDB_API_KEY" description:"TMDB API key for poster and list lookups"`
	TMDBAPIURL  string `long:"tmdb-api-url" env:"TMDB_API_URL" default:"https://api.themoviedb.org/3" description:"TMDB API base URL"`
	UserAgent   string `long:"user-agent" default:"filmhook/1.0" description:"User agent string for HTTP requests"`
	Debug       bool   `long:"debug" description:"Enable debug logging"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "preview: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	data, err := readInput(opts.File)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	var enricher letterboxd.Enricher
	if opts.TMDBAPIKey != "" {
		enricher = tmdb.NewClient(httpClient, opts.TMDBAPIURL, opts.TMDBAPIKey, opts.UserAgent)
	}

	window := time.Duration(opts.Window) * time.Minute
	now := time.Now()

	var result batch.Result
	switch source.Kind(opts.Kind) {
	case source.KindLetterboxd:
		entries, err := letterboxd.NewParser().Run(data)
		if err != nil {
			return err
		}
		if window > 0 {
			entries = tasks.RecentEntries(entries, now, window)
		}
		maxEmbeds := opts.MaxEmbeds
		if maxEmbeds == 0 {
			maxEmbeds = letterboxd.DefaultMaxEmbeds
		}
		aggregator := letterboxd.NewAggregator(letterboxd.NewBuilder(enricher), maxEmbeds, opts.Concurrency)
		result, err = aggregator.Build(ctx, opts.Account, entries)
		if err != nil {
			return err
		}

	case source.KindTrakt:
		var ratings []trakt.Rating
		if err := json.Unmarshal(data, &ratings); err != nil {
			return fmt.Errorf("failed to decode ratings: %w", err)
		}
		if window > 0 {
			ratings = tasks.RecentRatings(ratings, now, window)
		}
		maxEmbeds := opts.MaxEmbeds
		if maxEmbeds == 0 {
			maxEmbeds = trakt.DefaultMaxEmbeds
		}
		var posters trakt.PosterSource
		if enricher != nil {
			posters = enricher
		}
		aggregator := trakt.NewAggregator(trakt.NewBuilder(posters), maxEmbeds, opts.Concurrency)
		result, err = aggregator.Build(ctx, opts.Account, ratings)
		if err != nil {
			return err
		}
	}

	for _, buildErr := range result.Errors {
		slog.Warn("Entry skipped", "error", buildErr)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result.Payload)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
