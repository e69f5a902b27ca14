package driving

import (
	"context"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// TSPService solves and tunes ant colony runs on random instances.
type TSPService interface {
	// Solve generates an instance and runs the colony for req.Rounds rounds.
	// onIteration, if non-nil, receives periodic progress.
	Solve(ctx context.Context, req domain.TSPRequest, onIteration func(round int, stat domain.IterationStat)) (*domain.TSPReport, error)

	// Tune searches the parameter grid until it is exhausted or the time
	// limit passes. onTrial, if non-nil, receives every finished trial.
	Tune(ctx context.Context, req domain.TuneRequest, onTrial func(domain.Trial)) (*domain.TuneResult, error)
}
