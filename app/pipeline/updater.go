package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/flash-comb/app/database"
	"github.com/lysyi3m/flash-comb/app/newsflash"
)

const DefaultBatchSize = 100

type UpdateStats struct {
	Total    int           `json:"total"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Flushes  int           `json:"flushes"`
	Duration time.Duration `json:"duration"`
}

// Updater re-classifies stored records and rewrites their geo fields
type Updater struct {
	store      CandidateStore
	classifier Classifier
	extractor  LocationExtractor
	resolver   GeoResolver
	batchSize  int
}

func NewUpdater(store CandidateStore, classifier Classifier, extractor LocationExtractor, resolver GeoResolver, batchSize int) *Updater {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Updater{
		store:      store,
		classifier: classifier,
		extractor:  extractor,
		resolver:   resolver,
		batchSize:  batchSize,
	}
}

// Run re-evaluates the records selected by filter
func (u *Updater) Run(ctx context.Context, filter database.UpdateFilter) (UpdateStats, error) {
	candidates, err := u.store.GetForUpdates(ctx, filter)
	if err != nil {
		return UpdateStats{}, fmt.Errorf("failed to load news flash for updates: %w", err)
	}

	if len(candidates) == 0 {
		if filter.ID != nil {
			slog.Info("no matching news flash found", "id", *filter.ID)
		} else {
			slog.Info("no matching news flash found", "source", filter.Source)
		}
		return UpdateStats{}, nil
	}

	return u.Update(ctx, candidates)
}

// Update processes candidates one by one and flushes the successful ones in
// batches. A failing record is logged and skipped; only a failed flush stops
// the run.
func (u *Updater) Update(ctx context.Context, candidates []newsflash.UpdateCandidate) (UpdateStats, error) {
	stats := UpdateStats{Total: len(candidates)}
	started := time.Now()

	var batch Batch
	flush := func() error {
		n, err := batch.Flush(ctx, u.store)
		if err != nil {
			return fmt.Errorf("failed to flush %d updates: %w", batch.Len(), err)
		}
		if n > 0 {
			stats.Updated += n
			stats.Flushes++
			slog.Debug("Updates flushed", "count", n)
		}
		return nil
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		result := u.Process(ctx, candidate)
		if !result.OK() {
			stats.Failed++
			slog.Error("Failed to update news flash", "id", result.ID, "source", candidate.Source, "error", result.Err)
			continue
		}

		batch.Add(result.ID, result.Fields)
		if batch.Full(u.batchSize) {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(started)
	slog.Info("News flash update completed",
		"total", stats.Total,
		"updated", stats.Updated,
		"failed", stats.Failed,
		"duration", stats.Duration)

	return stats, nil
}

// Process re-evaluates one record and returns the columns to write for it
func (u *Updater) Process(ctx context.Context, candidate newsflash.UpdateCandidate) Result {
	var fields newsflash.Fields

	accident, err := u.classifier.Classify(candidate.Source, candidate.Text())
	if err != nil {
		return failed(candidate.ID, fmt.Errorf("failed to classify: %w", err))
	}
	fields.Set(newsflash.ColumnAccident, accident)

	if !accident {
		fields.ClearGeo()
		return Result{ID: candidate.ID, Fields: fields}
	}

	phrase, _ := u.extractor.Extract(candidate.Text())
	if phrase == newsflash.Deref(candidate.OldLocation) {
		return Result{ID: candidate.ID, Fields: fields}
	}

	record := newsflash.Record{
		ID:          candidate.ID,
		Title:       candidate.Title,
		Description: candidate.Description,
		Source:      candidate.Source,
		Accident:    true,
	}
	if err := u.resolver.ExtractGeoFeatures(ctx, &record); err != nil {
		return failed(candidate.ID, err)
	}
	fields.SetGeo(&record)

	return Result{ID: candidate.ID, Fields: fields}
}
