package driven

import (
	"context"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// RunStore persists the history of algorithm runs.
type RunStore interface {
	// Record stores a finished run.
	Record(ctx context.Context, run domain.Run) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List returns runs matching the filter, newest first.
	List(ctx context.Context, filter domain.RunFilter) ([]domain.Run, error)

	// Clear removes every run and returns how many were deleted.
	Clear(ctx context.Context) (int, error)
}
