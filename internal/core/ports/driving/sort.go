package driving

import (
	"context"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// SortService generates and sorts integer files.
type SortService interface {
	// Generate writes a file of random integers of at least sizeMB megabytes.
	// A zero seed picks a time-based seed.
	Generate(ctx context.Context, path string, sizeMB int, seed int64) (*domain.GenerateReport, error)

	// Sort runs an external polyphase sort. Zero options fall back to settings.
	Sort(ctx context.Context, opts domain.SortOptions) (*domain.SortReport, error)

	// Verify checks that a file is sorted.
	Verify(ctx context.Context, path string) (*domain.VerifyReport, error)
}
