package driving

import (
	"context"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// HistoryService exposes recorded runs.
type HistoryService interface {
	// List returns runs matching the filter, newest first.
	List(ctx context.Context, filter domain.RunFilter) ([]domain.Run, error)

	// Get retrieves a single run.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// Clear removes every run and returns how many were deleted.
	Clear(ctx context.Context) (int, error)
}
