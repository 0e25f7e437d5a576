package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.SourcesDir != "./sources" {
		t.Errorf("Expected sources dir './sources', got '%s'", cfg.SourcesDir)
	}
	if cfg.Schedule != "@hourly" {
		t.Errorf("Expected schedule '@hourly', got '%s'", cfg.Schedule)
	}
	if cfg.TraktAPIURL != "https://api.trakt.tv" {
		t.Errorf("Expected Trakt API URL 'https://api.trakt.tv', got '%s'", cfg.TraktAPIURL)
	}
	if cfg.TMDBAPIURL != "https://api.themoviedb.org/3" {
		t.Errorf("Expected TMDB API URL 'https://api.themoviedb.org/3', got '%s'", cfg.TMDBAPIURL)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parse([]string{
		"--sources-dir", "/etc/filmhook",
		"--schedule", "*/15 * * * *",
		"--tmdb-api-key", "tmdb-key",
		"--trakt-client-id", "trakt-id",
		"--log-file", "/var/log/filmhook.log",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.SourcesDir != "/etc/filmhook" {
		t.Errorf("Expected sources dir '/etc/filmhook', got '%s'", cfg.SourcesDir)
	}
	if cfg.Schedule != "*/15 * * * *" {
		t.Errorf("Expected schedule '*/15 * * * *', got '%s'", cfg.Schedule)
	}
	if cfg.TMDBAPIKey != "tmdb-key" || cfg.TraktClientID != "trakt-id" {
		t.Errorf("Unexpected credentials: %q %q", cfg.TMDBAPIKey, cfg.TraktClientID)
	}
	if cfg.LogFile != "/var/log/filmhook.log" {
		t.Errorf("Expected log file, got '%s'", cfg.LogFile)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestParseInvalidWorkerCount(t *testing.T) {
	if _, err := parse([]string{"--worker-count", "0"}); err == nil {
		t.Error("Expected error for zero workers")
	}
}
