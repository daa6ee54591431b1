package sim

import (
	"context"
	"runtime"
	"sync"
)

// Outcome pairs one sweep run's parameters with its result or error.
type Outcome struct {
	Params Params
	Result Result
	Err    error
}

// Sweep executes independent runs in parallel and returns their outcomes in
// input order. Each step of a run depends on the previous one, so the useful
// parallelism is across whole runs; every run owns its histories and random
// source exclusively, so no coordination is needed beyond the worker pool.
// Runs not started before ctx is cancelled report the context error.
func Sweep(ctx context.Context, runs []Params, workers int) []Outcome {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(runs) {
		workers = len(runs)
	}

	out := make([]Outcome, len(runs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					out[i] = Outcome{Params: runs[i], Err: err}
					continue
				}
				res, err := Run(runs[i])
				out[i] = Outcome{Params: runs[i], Result: res, Err: err}
			}
		}()
	}

	for i := range runs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

// Grid expands a base parameterization over the cross product of branching
// probabilities, guidance strengths, and self-interaction strengths. Each
// combination gets a distinct seed derived from the base seed, so a grid is
// reproducible as a whole yet its runs are independent.
func Grid(base Params, probs, fcs, fss []float64) []Params {
	if len(probs) == 0 {
		probs = []float64{base.Prob}
	}
	if len(fcs) == 0 {
		fcs = []float64{base.FC}
	}
	if len(fss) == 0 {
		fss = []float64{base.FS}
	}

	var runs []Params
	i := int64(0)
	for _, prob := range probs {
		for _, fc := range fcs {
			for _, fs := range fss {
				p := base
				p.Prob = prob
				p.FC = fc
				p.FS = fs
				p.Seed = base.Seed + i
				runs = append(runs, p)
				i++
			}
		}
	}
	return runs
}
