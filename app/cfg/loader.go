package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./filmhook.db" description:"Path to the SQLite delivery log"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	Schedule     string `long:"schedule" env:"POLL_SCHEDULE" default:"@hourly" description:"Cron expression for polling sources"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for source polling"`

	// Upstream services
	TraktAPIURL   string `long:"trakt-api-url" env:"TRAKT_API_URL" default:"https://api.trakt.tv" description:"Trakt API base URL"`
	TraktClientID string `long:"trakt-client-id" env:"TRAKT_CLIENT_ID" description:"Trakt API client id"`
	TMDBAPIURL    string `long:"tmdb-api-url" env:"TMDB_API_URL" default:"https://api.themoviedb.org/3" description:"TMDB API base URL"`
	TMDBAPIKey    string `long:"tmdb-api-key" env:"TMDB_API_KEY" description:"TMDB API key used for posters and descriptions"`
	LetterboxdURL string `long:"letterboxd-url" env:"LETTERBOXD_URL" default:"https://letterboxd.com" description:"Letterboxd base URL"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"filmhook/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	LogFile   string `long:"log-file" env:"LOG_FILE" description:"Also append logs to this file"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses flags and environment variables. It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	return parse(nil)
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourcesDir:    raw.SourcesDir,
		DBPath:        raw.DBPath,
		Port:          raw.Port,
		APIAccessKey:  raw.APIAccessKey,
		Schedule:      raw.Schedule,
		WorkerCount:   raw.WorkerCount,
		TraktAPIURL:   raw.TraktAPIURL,
		TraktClientID: raw.TraktClientID,
		TMDBAPIURL:    raw.TMDBAPIURL,
		TMDBAPIKey:    raw.TMDBAPIKey,
		LetterboxdURL: raw.LetterboxdURL,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		LogFile:       raw.LogFile,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
