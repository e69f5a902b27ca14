package driven

import (
	"context"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// UserStore persists the rows of the user table. The B-tree index is
// rebuilt from List when the table is opened.
type UserStore interface {
	// Save stores or updates a user by ID.
	Save(ctx context.Context, user domain.User) error

	// SaveAll stores users in a single transaction.
	SaveAll(ctx context.Context, users []domain.User) error

	// Delete removes a user. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id int64) error

	// List returns every user in ID order.
	List(ctx context.Context) ([]domain.User, error)

	// Clear removes every user.
	Clear(ctx context.Context) error
}
