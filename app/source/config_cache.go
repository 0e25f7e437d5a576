package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/filmhook/app/discord"
	"github.com/lysyi3m/filmhook/app/letterboxd"
	"github.com/lysyi3m/filmhook/app/trakt"
)

type ConfigCache struct {
	sourcesDir string
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewConfigCache(sourcesDir string) *ConfigCache {
	return &ConfigCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		sourceName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.LoadConfig(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "source", sourceName, "kind", config.Kind, "enabled", config.Settings.Enabled, "usernames", len(config.Usernames))
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(sourceName string) (*Config, error) {
	configFile := cc.getConfigFilePath(sourceName)
	sourceConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	sourceConfig.Name = sourceName

	if err := cc.validateConfig(sourceConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[sourceConfig.Name] = sourceConfig

	return sourceConfig, nil
}

func (cc *ConfigCache) GetConfig(sourceName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	sourceConfig, ok := cc.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return sourceConfig, nil
}

// GetConfigs returns every cached config sorted by name.
func (cc *ConfigCache) GetConfigs() []*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configs := make([]*Config, 0, len(cc.cache))
	for _, v := range cc.cache {
		configs = append(configs, v)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs
}

func (cc *ConfigCache) GetEnabledConfigs() []*Config {
	configs := cc.GetConfigs()
	enabled := configs[:0]
	for _, v := range configs {
		if v.Settings.Enabled {
			enabled = append(enabled, v)
		}
	}
	return enabled
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var sourceConfig Config
	if err := yaml.Unmarshal(data, &sourceConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if sourceConfig.Settings.Window == 0 {
		sourceConfig.Settings.Window = 60
	}
	if sourceConfig.Settings.MaxEmbeds == 0 {
		switch sourceConfig.Kind {
		case KindTrakt:
			sourceConfig.Settings.MaxEmbeds = trakt.DefaultMaxEmbeds
		default:
			sourceConfig.Settings.MaxEmbeds = letterboxd.DefaultMaxEmbeds
		}
	}
	if sourceConfig.Settings.Timeout == 0 {
		sourceConfig.Settings.Timeout = 30
	}
	if sourceConfig.Settings.Concurrency == 0 {
		sourceConfig.Settings.Concurrency = 1
	}

	return &sourceConfig, nil
}

func (cc *ConfigCache) validateConfig(sourceConfig *Config) error {
	if sourceConfig == nil {
		return fmt.Errorf("sourceConfig is nil")
	}

	requiredFields := map[string]string{
		"source name": sourceConfig.Name,
		"webhook URL": sourceConfig.WebhookURL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if sourceConfig.Kind != KindLetterboxd && sourceConfig.Kind != KindTrakt {
		return fmt.Errorf("invalid kind: %q", sourceConfig.Kind)
	}

	if len(sourceConfig.Usernames) == 0 {
		return fmt.Errorf("at least one username is required")
	}
	for i, username := range sourceConfig.Usernames {
		if strings.TrimSpace(username) == "" {
			return fmt.Errorf("username at index %d is empty", i)
		}
	}

	nonNegativeFields := map[string]int{
		"window":      sourceConfig.Settings.Window,
		"max embeds":  sourceConfig.Settings.MaxEmbeds,
		"timeout":     sourceConfig.Settings.Timeout,
		"concurrency": sourceConfig.Settings.Concurrency,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if sourceConfig.Settings.MaxEmbeds > discord.MaxEmbeds {
		return fmt.Errorf("max embeds must be at most %d", discord.MaxEmbeds)
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(sourceName string) string {
	return filepath.Join(cc.sourcesDir, sourceName+".yml")
}
