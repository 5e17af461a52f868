package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/flash-comb/app/location"
)

// SeedLocationsTask loads the reference points file into an empty store
type SeedLocationsTask struct {
	Task
	Path  string
	store ReferenceStore
}

func NewSeedLocationsTask(path string, store ReferenceStore) *SeedLocationsTask {
	return &SeedLocationsTask{
		Task:  NewTask(TaskTypeSeedLocations, ""),
		Path:  path,
		store: store,
	}
}

func (t *SeedLocationsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	count, err := t.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Debug("Location references already loaded, skipping", "count", count)
		return nil
	}

	refs, err := location.LoadReferences(t.Path)
	if err != nil {
		return err
	}

	if err := t.store.Seed(ctx, refs); err != nil {
		return fmt.Errorf("failed to seed location references: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"path", t.Path,
		"duration", t.GetDuration(),
		"references", len(refs))

	return nil
}
