package aco

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// TuneOptions controls a parameter search.
type TuneOptions struct {
	Mode    domain.TuneMode
	Workers int
	Seed    int64
	// Observer is called after every finished trial, in completion order.
	// Calls never overlap.
	Observer func(domain.Trial)
}

// Combination returns the parameters at position i of the grid. The
// elitist count varies fastest and the ant count slowest.
func Combination(grid domain.ParamGrid, i int) domain.ACOParams {
	p := domain.ElitistACOParams()

	pick := func(n int) int {
		idx := i % n
		i /= n
		return idx
	}
	p.Elitists = grid.Elitists[pick(len(grid.Elitists))]
	p.Q = grid.Q[pick(len(grid.Q))]
	p.Rho = grid.Rho[pick(len(grid.Rho))]
	p.Beta = grid.Beta[pick(len(grid.Beta))]
	p.Alpha = grid.Alpha[pick(len(grid.Alpha))]
	p.Iterations = grid.Iterations[pick(len(grid.Iterations))]
	p.Ants = grid.Ants[pick(len(grid.Ants))]
	return p
}

type trialResult struct {
	index  int
	params domain.ACOParams
	tour   []int
	length float64
}

// Tune evaluates grid combinations on g until the grid is exhausted or
// ctx is done. In refine mode the best combination is then re-run with
// fresh seeds for as long as it keeps improving. Trials cut short by ctx
// are discarded. If no trial finished, domain.ErrTimeLimit is returned.
func Tune(ctx context.Context, g *Graph, grid domain.ParamGrid, opts TuneOptions) (domain.TuneResult, error) {
	start := time.Now()
	var result domain.TuneResult

	size := grid.Size()
	if size == 0 {
		return result, fmt.Errorf("%w: empty parameter grid", domain.ErrInvalidInput)
	}
	if opts.Mode == "" {
		opts.Mode = domain.TuneGrid
	}
	if !opts.Mode.IsValid() {
		return result, fmt.Errorf("%w: unknown tune mode %q", domain.ErrInvalidInput, opts.Mode)
	}
	workers := max(opts.Workers, 1)

	var (
		mu       sync.Mutex
		finished []trialResult
	)

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := 0; i < size && ctx.Err() == nil; i++ {
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			p := Combination(grid, i)
			r, err := Solve(ctx, g, p, opts.Seed+int64(i), nil)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, domain.ErrIncompleteTour) {
					return nil
				}
				return fmt.Errorf("trial %d (%s): %w", i, p, err)
			}
			tr := trialResult{index: i, params: p, tour: r.Tour, length: r.Length}
			mu.Lock()
			defer mu.Unlock()
			finished = append(finished, tr)
			if opts.Observer != nil {
				opts.Observer(domain.Trial{Params: p, Length: r.Length})
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return result, err
	}

	slices.SortFunc(finished, func(a, b trialResult) int { return a.index - b.index })

	best := math.Inf(1)
	for _, tr := range finished {
		improved := tr.length < best
		if improved {
			best = tr.length
			result.Best = tr.params
			result.BestTour = tr.tour
			result.Length = tr.length
		}
		result.Trials = append(result.Trials, domain.Trial{Params: tr.params, Length: tr.length, Improved: improved})
	}
	result.Evaluated = len(finished)

	if opts.Mode == domain.TuneRefine && result.Evaluated > 0 {
		refine(ctx, g, opts, size, &result)
	}

	result.TimedOut = ctx.Err() != nil
	result.Duration = time.Since(start)
	if result.Evaluated == 0 {
		return result, fmt.Errorf("no parameter combination finished in %s: %w",
			result.Duration.Round(time.Millisecond), domain.ErrTimeLimit)
	}
	return result, nil
}

// refine re-runs the best combination with new seeds while each run beats
// the previous best.
func refine(ctx context.Context, g *Graph, opts TuneOptions, size int, result *domain.TuneResult) {
	for k := 0; ctx.Err() == nil; k++ {
		r, err := Solve(ctx, g, result.Best, opts.Seed+int64(size+k), nil)
		if err != nil {
			return
		}
		result.Evaluated++
		trial := domain.Trial{Params: result.Best, Length: r.Length, Improved: r.Length < result.Length}
		result.Trials = append(result.Trials, trial)
		if opts.Observer != nil {
			opts.Observer(trial)
		}
		if !trial.Improved {
			return
		}
		result.Length = r.Length
		result.BestTour = r.Tour
	}
}
