package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	defaultMaxOpenConns  = 4
	defaultBusyTimeoutMS = 5000
)

// DB wraps the SQLite delivery log connection.
type DB struct {
	*sqlx.DB
}

type Config struct {
	Path          string
	MaxOpenConns  int
	BusyTimeoutMS int
}

// Open opens (creating if needed) the SQLite database at cfg.Path and migrates it.
func Open(cfg Config) (*DB, error) {
	dir := filepath.Dir(cfg.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for database: %w", err)
		}
	}

	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.BusyTimeoutMS <= 0 {
		cfg.BusyTimeoutMS = defaultBusyTimeoutMS
	}

	// WAL lets the API read while a poll task writes.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(%d)&_time_format=sqlite",
		cfg.Path, cfg.BusyTimeoutMS)

	sqlxDB, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlxDB.SetMaxOpenConns(cfg.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlxDB.PingContext(pingCtx); err != nil {
		sqlxDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{sqlxDB}

	version, dirty, err := RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("Database ready", "path", cfg.Path, "migration_version", version, "dirty", dirty)
	return db, nil
}
