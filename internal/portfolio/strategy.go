package portfolio

import (
	"context"
	"sync"
)

// Strategy decides how the per-row jobs of a batch are executed. Jobs are
// independent and write only to their own index, so no locking is needed.
type Strategy interface {
	Run(ctx context.Context, n int, job func(ctx context.Context, i int))
	Name() string
}

// Sequential runs one job after the other
type Sequential struct{}

func (Sequential) Name() string { return "SEQUENTIAL" }

func (Sequential) Run(ctx context.Context, n int, job func(ctx context.Context, i int)) {
	for i := 0; i < n; i++ {
		job(ctx, i)
	}
}

// Pool runs jobs on at most Workers goroutines. Workers <= 0 starts one
// goroutine per job, i.e. an unbounded fan-out.
type Pool struct {
	Workers int
}

func (p Pool) Name() string { return "CONCURRENT" }

func (p Pool) Run(ctx context.Context, n int, job func(ctx context.Context, i int)) {
	workers := p.Workers
	if workers <= 0 || workers > n {
		workers = n
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				job(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}

// StrategyFor maps the pipeline.mode setting to a strategy
func StrategyFor(mode string, workers int) Strategy {
	if mode == "SEQUENTIAL" {
		return Sequential{}
	}
	return Pool{Workers: workers}
}
