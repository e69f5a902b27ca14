package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikeepcalm/ad/internal/aco"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
	"github.com/ikeepcalm/ad/internal/logger"
)

// Ensure TSPService implements the interface.
var _ driving.TSPService = (*TSPService)(nil)

// DefaultMaxDistance bounds the edges of symmetric instances.
const DefaultMaxDistance = 50

// TSPService solves and tunes ant colony runs on random instances.
type TSPService struct {
	settings driving.SettingsService
	recorder recorder
}

// NewTSPService creates a new TSP service. runs may be nil.
func NewTSPService(settings driving.SettingsService, runs driven.RunStore) *TSPService {
	return &TSPService{settings: settings, recorder: recorder{runs: runs}}
}

// Solve generates an instance and runs the colony req.Rounds times. Each
// round after the first grows iterations and the report interval by half.
func (s *TSPService) Solve(ctx context.Context, req domain.TSPRequest, onIteration func(round int, stat domain.IterationStat)) (*domain.TSPReport, error) {
	started := time.Now()
	report, err := s.solve(ctx, &req, onIteration)
	s.recorder.record(ctx, domain.RunKindTSP, req, report, started, err)
	return report, err
}

func (s *TSPService) solve(ctx context.Context, req *domain.TSPRequest, onIteration func(int, domain.IterationStat)) (*domain.TSPReport, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if req.Vertices == 0 {
		req.Vertices = settings.ACO.Vertices
		if req.TwoCriteria {
			req.Vertices = settings.Tuner.Cities
		}
	}
	if req.Vertices < 2 {
		return nil, fmt.Errorf("%w: at least 2 vertices are required", domain.ErrInvalidInput)
	}
	if req.MaxDistance == 0 {
		req.MaxDistance = DefaultMaxDistance
	}
	if req.Params.Ants == 0 {
		req.Params = settings.ClassicParams()
		if req.TwoCriteria {
			req.Params = domain.ElitistACOParams()
		}
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	if req.Rounds <= 0 {
		req.Rounds = 1
	}
	req.Seed = seedOrNow(req.Seed)

	rng := newRand(req.Seed)
	var g *aco.Graph
	if req.TwoCriteria {
		g = aco.RandomTwoCriteria(req.Vertices, rng)
	} else {
		g = aco.RandomSymmetric(req.Vertices, req.MaxDistance, rng)
	}

	report := &domain.TSPReport{Seed: req.Seed, Vertices: req.Vertices, Distance: g.Distance}
	params := req.Params
	for round := 1; round <= req.Rounds; round++ {
		logger.Section(fmt.Sprintf("ACO round %d", round))
		logger.Debug("%s", params)

		obs := func(stat domain.IterationStat) {
			logger.Debug("iteration %d: best length %.0f", stat.Iteration, stat.BestLength)
			if onIteration != nil {
				onIteration(round, stat)
			}
		}
		result, err := aco.Solve(ctx, g, params, req.Seed+int64(round), obs)
		if err != nil {
			return report, fmt.Errorf("round %d: %w", round, err)
		}
		report.Rounds = append(report.Rounds, domain.TSPRound{Round: round, Params: params, Result: result})

		params.Iterations += params.Iterations / 2
		params.ReportEvery += params.ReportEvery / 2
	}
	return report, nil
}

// Tune searches the parameter grid on a random two-criteria instance
// until it is exhausted or the time limit passes.
func (s *TSPService) Tune(ctx context.Context, req domain.TuneRequest, onTrial func(domain.Trial)) (*domain.TuneResult, error) {
	started := time.Now()
	result, err := s.tune(ctx, &req, onTrial)

	// trials are too many to keep in history
	var summary any
	if result != nil {
		brief := *result
		brief.Trials = nil
		summary = brief
	}
	s.recorder.record(ctx, domain.RunKindTune, req, summary, started, err)
	return result, err
}

func (s *TSPService) tune(ctx context.Context, req *domain.TuneRequest, onTrial func(domain.Trial)) (*domain.TuneResult, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if req.Cities == 0 {
		req.Cities = settings.Tuner.Cities
	}
	if req.Cities < 2 {
		return nil, fmt.Errorf("%w: at least 2 cities are required", domain.ErrInvalidInput)
	}
	if req.TimeLimit == 0 {
		req.TimeLimit = settings.Tuner.TimeLimit
	}
	if req.TimeLimit < 0 {
		return nil, fmt.Errorf("%w: time limit must be positive", domain.ErrInvalidInput)
	}
	if req.Workers == 0 {
		req.Workers = settings.Tuner.Workers
	}
	if req.Grid.Size() == 0 {
		req.Grid = domain.DefaultParamGrid()
	}
	if req.Mode == "" {
		req.Mode = domain.TuneGrid
	}
	req.Seed = seedOrNow(req.Seed)

	g := aco.RandomTwoCriteria(req.Cities, newRand(req.Seed))

	defer logger.Timed("ACO parameter tuning")()
	logger.Debug("%d cities, %d combinations, mode %s, limit %s, %d workers",
		req.Cities, req.Grid.Size(), req.Mode, req.TimeLimit, req.Workers)

	tctx, cancel := context.WithTimeout(ctx, req.TimeLimit)
	defer cancel()

	result, err := aco.Tune(tctx, g, req.Grid, aco.TuneOptions{
		Mode:    req.Mode,
		Workers: req.Workers,
		Seed:    req.Seed,
		Observer: func(t domain.Trial) {
			logger.Debug("trial: %s -> %.2f", t.Params, t.Length)
			if onTrial != nil {
				onTrial(t)
			}
		},
	})
	if err != nil {
		// the caller's own cancellation is not a time limit
		if errors.Is(err, domain.ErrTimeLimit) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if result.TimedOut {
		logger.Info("time limit %s reached after %d trials", req.TimeLimit, result.Evaluated)
	}
	return &result, nil
}
