package parallel

import (
	"runtime"
	"sync"
)

// DefaultRowThreshold is the row count below which ForRows stays on the
// calling goroutine.
const DefaultRowThreshold = 4096

// Parallelize splits [0, items) into one contiguous range per CPU core and
// runs fn on each range concurrently. fn must only write to state owned by
// its own range.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForRows runs fn over [0, rows) sequentially when rows <= threshold and
// with Parallelize otherwise. The result does not depend on the path taken
// as long as fn only writes per-row slots.
func ForRows(rows, threshold int, fn func(start, end int)) {
	if rows <= threshold {
		fn(0, rows)
		return
	}
	Parallelize(rows, fn)
}
