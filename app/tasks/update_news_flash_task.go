package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/flash-comb/app/database"
)

type UpdateNewsFlashTask struct {
	Task
	Filter  database.UpdateFilter
	updater Updater
}

func NewUpdateNewsFlashTask(filter database.UpdateFilter, updater Updater) *UpdateNewsFlashTask {
	return &UpdateNewsFlashTask{
		Task:    NewTask(TaskTypeUpdateNewsFlash, filter.Source),
		Filter:  filter,
		updater: updater,
	}
}

func (t *UpdateNewsFlashTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stats, err := t.updater.Run(ctx, t.Filter)
	if err != nil {
		return fmt.Errorf("failed to update news flash: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.Source,
		"duration", t.GetDuration(),
		"total", stats.Total,
		"updated", stats.Updated,
		"failed", stats.Failed)

	return nil
}
