package sqlite

import (
	"context"
	"fmt"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
)

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

const upsertUser = `
	INSERT INTO users (id, email, username, password)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		email = excluded.email,
		username = excluded.username,
		password = excluded.password
`

// Save stores or updates a user.
func (s *userStore) Save(ctx context.Context, user domain.User) error {
	if user.ID <= 0 {
		return fmt.Errorf("%w: user id must be positive", domain.ErrInvalidInput)
	}
	db, err := s.store.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, upsertUser, user.ID, user.Email, user.Username, user.Password); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// SaveAll stores users in a single transaction.
func (s *userStore) SaveAll(ctx context.Context, users []domain.User) error {
	db, err := s.store.conn()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, upsertUser)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		if u.ID <= 0 {
			return fmt.Errorf("%w: user id must be positive", domain.ErrInvalidInput)
		}
		if _, err := stmt.ExecContext(ctx, u.ID, u.Email, u.Username, u.Password); err != nil {
			return fmt.Errorf("saving user %d: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing users: %w", err)
	}
	return nil
}

// Delete removes a user.
func (s *userStore) Delete(ctx context.Context, id int64) error {
	db, err := s.store.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// List returns every user in ID order.
func (s *userStore) List(ctx context.Context) ([]domain.User, error) {
	db, err := s.store.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT id, email, username, password FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.User //nolint:prealloc // size unknown from query
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.Password); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// Clear removes every user.
func (s *userStore) Clear(ctx context.Context) error {
	db, err := s.store.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return fmt.Errorf("clearing users: %w", err)
	}
	return nil
}
