package pipeline

import (
	"context"
	"iter"
	"time"

	"github.com/lysyi3m/flash-comb/app/database"
	"github.com/lysyi3m/flash-comb/app/newsflash"
)

type WatermarkStore interface {
	GetLatestDate(ctx context.Context, source string) (*time.Time, error)
}

type Inserter interface {
	Insert(ctx context.Context, record newsflash.Record) (int64, error)
}

type FeedReader interface {
	Read(ctx context.Context, source string, watermark *time.Time) iter.Seq2[newsflash.RawItem, error]
}

type Classifier interface {
	Classify(source, text string) (bool, error)
}

type LocationExtractor interface {
	Extract(text string) (string, bool)
}

type GeoResolver interface {
	ExtractGeoFeatures(ctx context.Context, record *newsflash.Record) error
}

type BulkUpdater interface {
	UpdateBulk(ctx context.Context, ids []int64, fields []newsflash.Fields) error
}

type CandidateStore interface {
	GetForUpdates(ctx context.Context, filter database.UpdateFilter) ([]newsflash.UpdateCandidate, error)
	BulkUpdater
}
