package driving

import (
	"context"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// QueensService solves eight queens boards.
type QueensService interface {
	// Solve runs the requested search. onBoard, if non-nil, receives every
	// board the search examines.
	Solve(ctx context.Context, req domain.QueensRequest, onBoard func(domain.Board)) (*domain.QueensResult, error)
}
