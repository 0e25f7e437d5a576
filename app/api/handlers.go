package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/filmhook/app/database"
	"github.com/lysyi3m/filmhook/app/tasks"
)

const maxListLimit = 500

func NewHandler(configCache ConfigCacheInterface, deliveries database.DeliveryRepository,
	scheduler tasks.TaskSchedulerInterface, pipeline *tasks.Pipeline, version string) *Handler {
	return &Handler{
		configCache: configCache,
		deliveries:  deliveries,
		scheduler:   scheduler,
		pipeline:    pipeline,
		version:     version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":             time.Now().In(time.Local).Format(time.RFC3339),
		"version":               h.version,
		"loaded_configurations": h.configCache.GetConfigCount(),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.deliveries.Stats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "delivery_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := gin.H{
		"sources":    h.configCache.GetConfigCount(),
		"deliveries": stats,
	}
	if next := h.scheduler.NextRun(); !next.IsZero() {
		response["next_run"] = next.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))
	for _, sourceConfig := range configs {
		sources = append(sources, map[string]interface{}{
			"name":        sourceConfig.Name,
			"kind":        sourceConfig.Kind,
			"usernames":   sourceConfig.Usernames,
			"enabled":     sourceConfig.Settings.Enabled,
			"window":      sourceConfig.Settings.WindowDuration().String(),
			"max_embeds":  sourceConfig.Settings.MaxEmbeds,
			"timeout":     sourceConfig.Settings.TimeoutDuration().String(),
			"concurrency": sourceConfig.Settings.Concurrency,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIListDeliveries(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = n
	}

	sourceName := c.Query("source")
	if sourceName != "" {
		if _, err := h.configCache.GetConfig(sourceName); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
			return
		}
	}

	deliveries, err := h.deliveries.List(c.Request.Context(), sourceName, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_deliveries", "source", sourceName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deliveries": deliveries,
		"total":      len(deliveries),
	})
}

// APIPollSource reloads the source file and queues an immediate poll.
func (h *Handler) APIPollSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	sourceConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	pollTask := tasks.NewPollSourceTask(sourceConfig, h.pipeline)
	if err := h.scheduler.EnqueueTask(pollTask); err != nil {
		slog.Error("Error enqueueing poll task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue poll task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Poll task enqueued successfully",
		"source": gin.H{
			"name":    sourceConfig.Name,
			"kind":    sourceConfig.Kind,
			"enabled": sourceConfig.Settings.Enabled,
		},
		"task": gin.H{
			"id":   pollTask.ID,
			"type": pollTask.Type,
		},
	})
}
