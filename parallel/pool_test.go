package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsEveryTask(t *testing.T) {
	for _, n := range []int{1, 4} {
		pool := Start(n)
		if pool.Workers != n {
			t.Errorf("Expected %d workers, got %d", n, pool.Workers)
		}

		var count atomic.Int64
		seen := make([]atomic.Int64, n)
		for range 100 {
			pool.Do(func(worker int) {
				if worker < 0 || worker >= n {
					t.Errorf("worker index %d out of range [0,%d)", worker, n)
					return
				}
				seen[worker].Add(1)
				count.Add(1)
			})
		}
		pool.Wait(true)

		if got := count.Load(); got != 100 {
			t.Errorf("%d workers ran %d tasks, want 100", n, got)
		}
		var total int64
		for i := range seen {
			total += seen[i].Load()
		}
		if total != 100 {
			t.Errorf("per-worker counts add up to %d, want 100", total)
		}
	}
}

func TestPoolDefaultsToGOMAXPROCS(t *testing.T) {
	pool := Start(0)
	defer pool.Wait(true)

	if pool.Workers < 1 {
		t.Errorf("Expected at least one worker, got %d", pool.Workers)
	}
}

func TestPoolCancelIsIdempotent(t *testing.T) {
	pool := Start(2)
	pool.Cancel()
	pool.Cancel()
	pool.Wait(true)
}
