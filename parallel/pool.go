// Package parallel runs tasks on a fixed set of workers. Every task learns
// the index of the worker running it, so callers can keep per-worker state
// such as frame scratch buffers without locking.
package parallel

import (
	"runtime"
	"sync"
)

type (
	Task       func(worker int)
	WorkerFunc func(Task)
	WaitFunc   func(done bool)
	CancelFunc func()
)

type Pool struct {
	wg      sync.WaitGroup
	Workers int
	Do      WorkerFunc
	Wait    WaitFunc
	Cancel  CancelFunc
}

// Start launches numWorkers workers, or GOMAXPROCS workers when numWorkers
// is below 1. A single worker pool runs tasks inline on the caller.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Workers: numWorkers,
		Do: func(f Task) {
			f(0)
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan Task, numWorkers)

		for worker := range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f(worker)
				}
			})
		}

		pool.Do = func(f Task) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}
