package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.Run
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Record stores a finished run.
func (s *RunStore) Record(_ context.Context, run domain.Run) error {
	if run.ID == "" || !run.Kind.IsValid() {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.runs {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns runs matching the filter, newest first.
func (s *RunStore) List(_ context.Context, filter domain.RunFilter) ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Run, 0)
	for _, r := range s.runs {
		if filter.Kind == "" || r.Kind == filter.Kind {
			result = append(result, r)
		}
	}
	slices.SortStableFunc(result, func(a, b domain.Run) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Clear removes every run.
func (s *RunStore) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.runs)
	s.runs = nil
	return n, nil
}
