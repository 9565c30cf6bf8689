// Package parallel splits row ranges across CPU cores.
//
// Callers must make each index in [start, end) independent of every other
// index; the helpers only partition work and wait for it to finish, so the
// result is identical to running fn(0, items) sequentially.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into contiguous chunks, one per available CPU core,
// and runs fn on each chunk concurrently. It returns after every chunk is done.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	if numWorkers <= 1 {
		fn(0, items)
		return
	}

	// ceiling division
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

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items does not exceed threshold, and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
