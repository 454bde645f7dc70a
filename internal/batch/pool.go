package batch

import (
	"context"
	"runtime"
	"sync"
)

// PoolResult pairs one item's output with its input index and any failure.
type PoolResult[T any] struct {
	Index int
	Value T
	Err   error
}

// RunPool maps work over items with at most workers goroutines, defaulting to
// runtime.NumCPU() when workers is not positive. Every item produces exactly
// one result in input order; per-item failures are captured, not propagated.
// Context cancellation stops the pool between items, recording ctx.Err() for
// items never started.
func RunPool[I, O any](ctx context.Context, workers int, items []I, work func(ctx context.Context, item I) (O, error)) []PoolResult[O] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]PoolResult[O], len(items))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				value, err := work(ctx, items[idx])
				results[idx] = PoolResult[O]{Index: idx, Value: value, Err: err}
			}
		}()
	}

	for idx := range items {
		if ctx.Err() != nil {
			results[idx] = PoolResult[O]{Index: idx, Err: ctx.Err()}
			continue
		}
		indexes <- idx
	}
	close(indexes)
	wg.Wait()

	return results
}
