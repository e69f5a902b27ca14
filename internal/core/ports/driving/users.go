package driving

import (
	"context"
	"io"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// UserService manages the B-tree indexed user table.
type UserService interface {
	// Open loads stored users into the index. It is safe to call again.
	Open(ctx context.Context) error

	// Create assigns the next ID to draft and stores it.
	Create(ctx context.Context, draft domain.User) (*domain.User, error)

	// Get looks a user up by ID and reports the comparisons it took.
	Get(ctx context.Context, id int64) (*domain.UserLookup, error)

	// Update replaces an existing user.
	Update(ctx context.Context, user domain.User) error

	// Delete removes a user.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of users.
	Count(ctx context.Context) (int, error)

	// Page returns the zero-based page of users in ID order.
	// A size of zero uses the configured page size.
	Page(ctx context.Context, index, size int) (*domain.UserPage, error)

	// Generate appends n synthetic users and returns how many were added.
	Generate(ctx context.Context, n int) (int, error)

	// Import reads users from CSV and returns how many were stored.
	Import(ctx context.Context, r io.Reader) (int, error)

	// Export writes every user as CSV and returns how many were written.
	Export(ctx context.Context, w io.Writer) (int, error)

	// Clear removes every user.
	Clear(ctx context.Context) error
}
