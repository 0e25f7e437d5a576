package api

import (
	"github.com/lysyi3m/filmhook/app/database"
	"github.com/lysyi3m/filmhook/app/source"
	"github.com/lysyi3m/filmhook/app/tasks"
)

type ConfigCacheInterface interface {
	GetConfig(sourceName string) (*source.Config, error)
	GetConfigs() []*source.Config
	GetConfigCount() int
	LoadConfig(sourceName string) (*source.Config, error)
}

var _ ConfigCacheInterface = (*source.ConfigCache)(nil)

type Handler struct {
	configCache ConfigCacheInterface
	deliveries  database.DeliveryRepository
	scheduler   tasks.TaskSchedulerInterface
	pipeline    *tasks.Pipeline
	version     string
}
