package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/filmhook/app/api"
	"github.com/lysyi3m/filmhook/app/cfg"
	"github.com/lysyi3m/filmhook/app/database"
	"github.com/lysyi3m/filmhook/app/discord"
	"github.com/lysyi3m/filmhook/app/letterboxd"
	"github.com/lysyi3m/filmhook/app/source"
	"github.com/lysyi3m/filmhook/app/tasks"
	"github.com/lysyi3m/filmhook/app/tmdb"
	"github.com/lysyi3m/filmhook/app/trakt"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logFile, err := setupLogging(appCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(appCfg); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(appCfg *cfg.Cfg) (*os.File, error) {
	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	var logFile *os.File
	if appCfg.LogFile != "" {
		f, err := os.OpenFile(appCfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		out = io.MultiWriter(os.Stderr, f)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return logFile, nil
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting filmhook", "version", appCfg.Version, "timezone", appCfg.Timezone, "schedule", appCfg.Schedule)

	configCache := source.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		return fmt.Errorf("failed to load source configurations: %w", err)
	}
	slog.Info("Source configurations loaded", "dir", appCfg.SourcesDir, "count", configCache.GetConfigCount())

	db, err := database.Open(database.Config{Path: appCfg.DBPath})
	if err != nil {
		return err
	}
	defer db.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	pipeline := &tasks.Pipeline{
		Feeds:      letterboxd.NewFetcher(httpClient, letterboxd.NewParser(), appCfg.LetterboxdURL, appCfg.UserAgent),
		Ratings:    trakt.NewClient(httpClient, appCfg.TraktAPIURL, appCfg.TraktClientID, appCfg.UserAgent),
		Sender:     discord.NewSender(httpClient, appCfg.UserAgent),
		Deliveries: database.NewDeliveryRepository(db),
	}
	// Assigned only when configured so the interface stays nil otherwise.
	if appCfg.TMDBAPIKey != "" {
		pipeline.Enricher = tmdb.NewClient(httpClient, appCfg.TMDBAPIURL, appCfg.TMDBAPIKey, appCfg.UserAgent)
	} else {
		slog.Warn("TMDB_API_KEY not set, posters and list descriptions will not be looked up")
	}
	if appCfg.TraktClientID == "" {
		for _, sourceConfig := range configCache.GetEnabledConfigs() {
			if sourceConfig.Kind == source.KindTrakt {
				slog.Warn("TRAKT_CLIENT_ID not set, Trakt requests will be rejected", "source", sourceConfig.Name)
			}
		}
	}

	scheduler, err := tasks.NewScheduler(configCache, pipeline, appCfg.Schedule, appCfg.WorkerCount)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(configCache, pipeline.Deliveries, scheduler, pipeline, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case runErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return runErr
}
