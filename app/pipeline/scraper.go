package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/flash-comb/app/newsflash"
)

type ScrapeStats struct {
	Source    string        `json:"source"`
	Added     int           `json:"added"`
	Accidents int           `json:"accidents"`
	Duration  time.Duration `json:"duration"`
}

// Scraper ingests the items published since the last stored one
type Scraper struct {
	watermarks WatermarkStore
	store      Inserter
	reader     FeedReader
	classifier Classifier
	resolver   GeoResolver
}

func NewScraper(watermarks WatermarkStore, store Inserter, reader FeedReader, classifier Classifier, resolver GeoResolver) *Scraper {
	return &Scraper{
		watermarks: watermarks,
		store:      store,
		reader:     reader,
		classifier: classifier,
		resolver:   resolver,
	}
}

// Scrape stores every new item of source in feed order, newest first. The
// first error aborts the run; items stored before it stay stored.
func (s *Scraper) Scrape(ctx context.Context, source string) (ScrapeStats, error) {
	stats := ScrapeStats{Source: source}
	started := time.Now()

	watermark, err := s.watermarks.GetLatestDate(ctx, source)
	if err != nil {
		return stats, fmt.Errorf("failed to read watermark: %w", err)
	}

	for item, err := range s.reader.Read(ctx, source, watermark) {
		if err != nil {
			return stats, err
		}

		record := newsflash.Normalize(item)

		accident, err := s.classifier.Classify(source, record.ClassificationText())
		if err != nil {
			return stats, fmt.Errorf("failed to classify %s: %w", record.Link, err)
		}
		record.Accident = accident

		if accident {
			if err := s.resolver.ExtractGeoFeatures(ctx, &record); err != nil {
				return stats, fmt.Errorf("failed to resolve location of %s: %w", record.Link, err)
			}
		}

		id, err := s.store.Insert(ctx, record)
		if err != nil {
			return stats, err
		}

		stats.Added++
		if accident {
			stats.Accidents++
		}

		slog.Info("News flash added",
			"id", id,
			"source", source,
			"link", record.Link,
			"accident", accident)
	}

	stats.Duration = time.Since(started)
	return stats, nil
}
