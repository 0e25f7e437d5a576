package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultListLimit = 50

type SQLDeliveryRepository struct {
	db *DB
}

func NewDeliveryRepository(db *DB) *SQLDeliveryRepository {
	return &SQLDeliveryRepository{db: db}
}

// Record inserts delivery, assigning an ID and creation time when unset.
func (r *SQLDeliveryRepository) Record(ctx context.Context, delivery *Delivery) error {
	if delivery.ID == "" {
		delivery.ID = uuid.NewString()
	}
	if delivery.CreatedAt.IsZero() {
		delivery.CreatedAt = time.Now()
	}
	// Stored as text, so a single zone keeps ORDER BY chronological.
	delivery.CreatedAt = delivery.CreatedAt.UTC()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO deliveries (
			id, source, account, content, embed_count, entry_count,
			skipped_count, status_code, error, created_at
		) VALUES (
			:id, :source, :account, :content, :embed_count, :entry_count,
			:skipped_count, :status_code, :error, :created_at
		)`, delivery)
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

// List returns the most recent deliveries, optionally limited to one source.
func (r *SQLDeliveryRepository) List(ctx context.Context, source string, limit int) ([]Delivery, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT * FROM deliveries`
	args := []any{}
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	deliveries := []Delivery{}
	if err := r.db.SelectContext(ctx, &deliveries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return deliveries, nil
}

func (r *SQLDeliveryRepository) Stats(ctx context.Context) (*DeliveryStats, error) {
	var stats DeliveryStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN error <> '' THEN 1 ELSE 0 END), 0) AS failed,
			COALESCE(SUM(embed_count), 0) AS embeds
		FROM deliveries`)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery stats: %w", err)
	}

	var last time.Time
	err = r.db.GetContext(ctx, &last, `SELECT created_at FROM deliveries ORDER BY created_at DESC LIMIT 1`)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to get last delivery: %w", err)
	default:
		stats.LastDeliveryAt = &last
	}

	return &stats, nil
}
