package pipeline

import (
	"context"

	"github.com/lysyi3m/flash-comb/app/newsflash"
)

// Batch accumulates pending updates in arrival order
type Batch struct {
	ids    []int64
	fields []newsflash.Fields
}

func (b *Batch) Add(id int64, fields newsflash.Fields) {
	b.ids = append(b.ids, id)
	b.fields = append(b.fields, fields)
}

func (b *Batch) Len() int {
	return len(b.ids)
}

func (b *Batch) Full(size int) bool {
	return size > 0 && len(b.ids) >= size
}

// Flush writes the pending updates to sink and empties the batch. An empty
// batch is not written. On error the batch keeps its contents.
func (b *Batch) Flush(ctx context.Context, sink BulkUpdater) (int, error) {
	n := len(b.ids)
	if n == 0 {
		return 0, nil
	}

	if err := sink.UpdateBulk(ctx, b.ids, b.fields); err != nil {
		return 0, err
	}

	b.ids = nil
	b.fields = nil
	return n, nil
}
