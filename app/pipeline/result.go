package pipeline

import (
	"github.com/lysyi3m/flash-comb/app/newsflash"
)

// Result is the outcome of re-evaluating one record
type Result struct {
	ID     int64
	Fields newsflash.Fields
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func failed(id int64, err error) Result {
	return Result{ID: id, Err: err}
}
