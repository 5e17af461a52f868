package tasks

import (
	"context"

	"github.com/lysyi3m/flash-comb/app/database"
	"github.com/lysyi3m/flash-comb/app/location"
	"github.com/lysyi3m/flash-comb/app/pipeline"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Tasks run one at a time on a single worker, in the order they were enqueued.
//
//	scheduler := NewScheduler(scraper, registry, interval, NewSeedLocationsTask(path, store))
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewScrapeSourceTask("ynet", scraper))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

type Scraper interface {
	Scrape(ctx context.Context, source string) (pipeline.ScrapeStats, error)
}

type Updater interface {
	Run(ctx context.Context, filter database.UpdateFilter) (pipeline.UpdateStats, error)
}

type ReferenceStore interface {
	Count(ctx context.Context) (int, error)
	Seed(ctx context.Context, refs []location.Reference) error
}
