package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type ScrapeSourceTask struct {
	Task
	scraper Scraper
}

// Scrape tasks are not retried; the next tick resumes from the stored watermark.
func NewScrapeSourceTask(source string, scraper Scraper) *ScrapeSourceTask {
	task := NewTask(TaskTypeScrapeSource, source)
	task.MaxRetries = 0

	return &ScrapeSourceTask{
		Task:    task,
		scraper: scraper,
	}
}

func (t *ScrapeSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stats, err := t.scraper.Scrape(ctx, t.Source)
	if err != nil {
		return fmt.Errorf("failed to scrape %s after %d items: %w", t.Source, stats.Added, err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.Source,
		"duration", t.GetDuration(),
		"added", stats.Added,
		"accidents", stats.Accidents)

	return nil
}
