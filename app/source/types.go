package source

import (
	"time"
)

type Kind string

const (
	KindLetterboxd Kind = "letterboxd"
	KindTrakt      Kind = "trakt"
)

type Config struct {
	Name       string   // Derived from filename (without .yml extension)
	Kind       Kind     `yaml:"kind"`
	WebhookURL string   `yaml:"webhook_url"`
	Usernames  []string `yaml:"usernames"`
	Settings   Settings `yaml:"settings"`
}

type Settings struct {
	Enabled     bool `yaml:"enabled"`
	Window      int  `yaml:"window"`     // minutes
	MaxEmbeds   int  `yaml:"max_embeds"` // per payload
	Timeout     int  `yaml:"timeout"`    // seconds
	Concurrency int  `yaml:"concurrency"`
}

// WindowDuration is how far back entries are considered new.
func (s Settings) WindowDuration() time.Duration {
	return time.Duration(s.Window) * time.Minute
}

func (s Settings) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}
