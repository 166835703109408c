package pipeline

import (
	"context"
	"runtime"
	"sync"
)

type Task func(i int) error

// Run calls fn for every index in [0, n) on a pool of workers. Errors come
// back in index order; a cancelled context stops feeding new indices and adds
// ctx.Err() to the result.
func Run(ctx context.Context, n, workers int, fn Task) []error {
	if n <= 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	workers = min(workers, n)

	jobs := make(chan int)
	errs := make([]error, n)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = fn(i)
			}
		}()
	}

	var cancelled error
feed:
	for i := range n {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	if cancelled != nil {
		out = append(out, cancelled)
	}
	return out
}
