package database

import (
	"time"
)

// Delivery is one attempted webhook post for one account.
type Delivery struct {
	ID           string    `db:"id" json:"id"`
	Source       string    `db:"source" json:"source"`   // source config name
	Account      string    `db:"account" json:"account"` // Letterboxd or Trakt username
	Content      string    `db:"content" json:"content"`
	EmbedCount   int       `db:"embed_count" json:"embed_count"`
	EntryCount   int       `db:"entry_count" json:"entry_count"`
	SkippedCount int       `db:"skipped_count" json:"skipped_count"`
	StatusCode   int       `db:"status_code" json:"status_code"`
	Error        string    `db:"error" json:"error,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (d Delivery) Failed() bool {
	return d.Error != ""
}

type DeliveryStats struct {
	Total          int        `db:"total" json:"total"`
	Failed         int        `db:"failed" json:"failed"`
	Embeds         int        `db:"embeds" json:"embeds"`
	LastDeliveryAt *time.Time `db:"-" json:"last_delivery_at,omitempty"`
}
