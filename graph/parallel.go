package graph

import (
	"context"
	"fmt"
	"sync"
)

// Fanout runs fn over every item concurrently and waits for all
// workers before returning. Results and errors keep the input order; a
// panic inside a worker becomes that worker's error instead of taking
// the process down.
func Fanout[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[idx] = fmt.Errorf("panic in worker %d: %v", idx, r)
				}
			}()
			results[idx], errs[idx] = fn(ctx, it)
		}(i, item)
	}
	wg.Wait()

	return results, errs
}
