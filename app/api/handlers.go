package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/lysyi3m/flash-comb/app/database"
	"github.com/lysyi3m/flash-comb/app/sources"
	"github.com/lysyi3m/flash-comb/app/tasks"
)

func NewHandler(store NewsFlashStore, registry *sources.Registry, scraper tasks.Scraper,
	updater tasks.Updater, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		store:     store,
		registry:  registry,
		scraper:   scraper,
		updater:   updater,
		scheduler: scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   h.registry.Count(),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total := 0
	for _, s := range stats {
		total += s.Total
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": stats,
		"total":   total,
	})
}

func (h *Handler) ListNewsFlash(c *gin.Context) {
	filter := database.ListFilter{Source: c.Query("source")}

	if raw := c.Query("accident"); raw != "" {
		accident, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accident parameter"})
			return
		}
		filter.Accident = &accident
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		filter.Limit = limit
	}

	records, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_news_flash", "source", filter.Source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"news_flash": lo.Map(records, toNewsFlashResponse),
		"total":      len(records),
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	list := lo.Map(h.registry.Names(), func(name string, _ int) gin.H {
		src, _ := h.registry.Get(name)
		return gin.H{
			"name":    src.Name,
			"url":     src.URL,
			"parser":  src.Parser,
			"enabled": src.Enabled,
			"timeout": src.GetTimeout().String(),
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"sources": list,
		"total":   len(list),
	})
}

func (h *Handler) APIScrapeSource(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.registry.Get(name); err != nil {
		if errors.Is(err, sources.ErrUnknownSource) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	task := tasks.NewScrapeSourceTask(name, h.scraper)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing scrape task", "source", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue scrape task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Scrape task enqueued",
		"task": gin.H{
			"id":     task.ID,
			"type":   task.Type,
			"source": name,
		},
	})
}

func (h *Handler) APIUpdateNewsFlash(c *gin.Context) {
	filter := database.UpdateFilter{Source: c.Query("source")}

	if raw := c.Query("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
			return
		}
		filter.ID = &id
	}

	task := tasks.NewUpdateNewsFlashTask(filter, h.updater)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing update task", "source", filter.Source, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue update task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Update task enqueued",
		"task": gin.H{
			"id":            task.ID,
			"type":          task.Type,
			"source":        filter.Source,
			"news_flash_id": filter.ID,
		},
	})
}
