package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
)

// Ensure UserStore implements the interface.
var _ driven.UserStore = (*UserStore)(nil)

// UserStore is an in-memory implementation of driven.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[int64]domain.User),
	}
}

// Save stores or updates a user.
func (s *UserStore) Save(_ context.Context, user domain.User) error {
	if user.ID <= 0 {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// SaveAll stores users; on invalid input nothing is stored.
func (s *UserStore) SaveAll(_ context.Context, users []domain.User) error {
	for _, u := range users {
		if u.ID <= 0 {
			return domain.ErrInvalidInput
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
	}
	return nil
}

// Delete removes a user.
func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// List returns every user in ID order.
func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	slices.SortFunc(result, func(a, b domain.User) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

// Clear removes every user.
func (s *UserStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.users)
	return nil
}
