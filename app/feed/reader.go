package feed

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/lysyi3m/flash-comb/app/newsflash"
	"github.com/lysyi3m/flash-comb/app/sources"
)

// Reader produces the items of a source feed that are newer than a watermark.
type Reader struct {
	registry *sources.Registry
	fetcher  Fetcher
	parser   *Parser
}

func NewReader(registry *sources.Registry, fetcher Fetcher) *Reader {
	return &Reader{
		registry: registry,
		fetcher:  fetcher,
		parser:   NewParser(),
	}
}

// Read fetches the feed of the named source once and yields its entries in
// feed order. Entries are assumed newest-first: reading stops at the first
// entry dated at or before watermark. A nil watermark yields every entry.
//
// Each yielded entry costs one detail page fetch. The first error is yielded
// and ends the sequence.
func (r *Reader) Read(ctx context.Context, sourceName string, watermark *time.Time) iter.Seq2[newsflash.RawItem, error] {
	return func(yield func(newsflash.RawItem, error) bool) {
		src, err := r.registry.Get(sourceName)
		if err != nil {
			yield(newsflash.RawItem{}, err)
			return
		}

		parser, err := sources.ParserFor(src.Parser)
		if err != nil {
			yield(newsflash.RawItem{}, err)
			return
		}

		data, err := r.fetch(ctx, src, src.URL)
		if err != nil {
			yield(newsflash.RawItem{}, fmt.Errorf("failed to fetch feed: %w", err))
			return
		}

		entries, err := r.parser.Run(data)
		if err != nil {
			yield(newsflash.RawItem{}, err)
			return
		}

		for _, entry := range entries {
			date, err := src.ParseDate(entry.Published)
			if err != nil {
				yield(newsflash.RawItem{}, fmt.Errorf("failed to parse date %q: %w", entry.Published, err))
				return
			}

			if watermark != nil && !date.After(*watermark) {
				slog.Debug("Reached watermark", "source", src.Name, "date", date, "watermark", *watermark)
				return
			}

			link := entry.Link
			page, err := r.fetch(ctx, src, link)
			if err != nil {
				yield(newsflash.RawItem{}, fmt.Errorf("failed to fetch item %s: %w", link, err))
				return
			}

			detail, err := parser.Parse(sources.Entry{
				Title:       entry.Title,
				Description: entry.Description,
				Link:        link,
			}, page)
			if err != nil {
				yield(newsflash.RawItem{}, fmt.Errorf("failed to parse item %s: %w", link, err))
				return
			}

			item := newsflash.RawItem{
				DateParsed:  date,
				Title:       detail.Title,
				Link:        link,
				Source:      src.Name,
				Description: detail.Description,
				Author:      detail.Author,
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

func (r *Reader) fetch(ctx context.Context, src sources.Source, url string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, src.GetTimeout())
	defer cancel()
	return r.fetcher.Fetch(fetchCtx, url)
}
