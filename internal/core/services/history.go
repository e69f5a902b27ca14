package services

import (
	"context"
	"fmt"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes recorded runs.
type HistoryService struct {
	runs driven.RunStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(runs driven.RunStore) *HistoryService {
	return &HistoryService{runs: runs}
}

// List returns runs matching the filter, newest first.
func (s *HistoryService) List(ctx context.Context, filter domain.RunFilter) ([]domain.Run, error) {
	if filter.Kind != "" && !filter.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown run kind %q", domain.ErrInvalidInput, filter.Kind)
	}
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}
	return s.runs.List(ctx, filter)
}

// Get retrieves a single run.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.Run, error) {
	return s.runs.Get(ctx, id)
}

// Clear removes every run.
func (s *HistoryService) Clear(ctx context.Context) (int, error) {
	return s.runs.Clear(ctx)
}
