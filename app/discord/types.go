package discord

import (
	"time"
)

// Discord caps a webhook message at 10 embeds and a field value at 1024 characters.
const (
	MaxEmbeds     = 10
	MaxFieldValue = 1024
)

const TimestampLayout = "2006-01-02T15:04:05Z"

type Payload struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url,omitempty"`
	Image       *Image  `json:"image,omitempty"`
	Fields      []Field `json:"fields"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

type Image struct {
	URL string `json:"url"`
}

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewImage returns nil for an empty URL so the image is omitted from the JSON.
func NewImage(url string) *Image {
	if url == "" {
		return nil
	}
	return &Image{URL: url}
}

// FormatTimestamp renders t in UTC with second precision.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}
