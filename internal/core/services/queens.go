package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
	"github.com/ikeepcalm/ad/internal/logger"
	"github.com/ikeepcalm/ad/internal/queens"
)

// Ensure QueensService implements the interface.
var _ driving.QueensService = (*QueensService)(nil)

// QueensService solves eight queens boards.
type QueensService struct {
	settings driving.SettingsService
	recorder recorder
}

// NewQueensService creates a new queens service. runs may be nil.
func NewQueensService(settings driving.SettingsService, runs driven.RunStore) *QueensService {
	return &QueensService{settings: settings, recorder: recorder{runs: runs}}
}

// Solve runs the requested search. When the search fails the result still
// carries the starting board and statistics alongside the error.
func (s *QueensService) Solve(ctx context.Context, req domain.QueensRequest, onBoard func(domain.Board)) (*domain.QueensResult, error) {
	started := time.Now()
	result, err := s.solve(ctx, &req, onBoard)
	s.recorder.record(ctx, domain.RunKindQueens, req, result, started, err)
	return result, err
}

func (s *QueensService) solve(ctx context.Context, req *domain.QueensRequest, onBoard func(domain.Board)) (*domain.QueensResult, error) {
	if req.Algorithm == "" {
		req.Algorithm = domain.QueensLDFS
	}
	if !req.Algorithm.IsValid() {
		return nil, fmt.Errorf("%w: unknown algorithm %q", domain.ErrInvalidInput, req.Algorithm)
	}
	if req.Board == nil {
		req.Seed = seedOrNow(req.Seed)
		b := queens.Random(newRand(req.Seed))
		req.Board = &b
	}
	if req.Algorithm == domain.QueensAStar && req.MaxNodes == 0 {
		settings, err := s.settings.Get()
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		req.MaxNodes = settings.Queens.MaxNodes
	}

	defer logger.Timed("Eight Queens")()
	logger.Debug("algorithm=%s board=%s attacks=%d", req.Algorithm, req.Board, queens.Attacks(*req.Board))

	progress := newThrottle(ProgressInterval, 1)
	examined := 0
	observe := func(b domain.Board) {
		examined++
		if onBoard != nil {
			onBoard(b)
		}
		if progress.Allow() {
			logger.Debug("examined %d boards, current %s", examined, b)
		}
	}

	var (
		solution domain.Board
		stats    domain.SolveStats
		err      error
	)
	switch req.Algorithm {
	case domain.QueensAStar:
		solution, stats, err = queens.SolveAStar(ctx, *req.Board, req.MaxNodes, observe)
	default:
		limit := domain.BoardSize
		if req.DepthLimit != nil {
			limit = *req.DepthLimit
		}
		solution, stats, err = queens.SolveLDFS(ctx, *req.Board, limit, observe)
	}

	result := &domain.QueensResult{
		Algorithm: req.Algorithm,
		Initial:   *req.Board,
		Solution:  solution,
		Solved:    err == nil,
		Stats:     stats,
	}
	if err != nil {
		if errors.Is(err, domain.ErrNoSolution) || errors.Is(err, domain.ErrSearchExhausted) {
			logger.Warn("%s gave up after %d iterations", req.Algorithm, stats.Iterations)
		}
		return result, err
	}
	logger.Debug("solved: %s in %d iterations, %d nodes, %d in memory",
		solution, stats.Iterations, stats.TotalNodes, stats.MaxNodesInMemory)
	return result, nil
}
