package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ikeepcalm/ad/internal/btree"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
	"github.com/ikeepcalm/ad/internal/logger"
)

// Ensure UserService implements the interface.
var _ driving.UserService = (*UserService)(nil)

// csvHeader is the column order of exported user files.
var csvHeader = []string{"id", "email", "username", "password"}

// UserService manages the user table. Rows live in a UserStore and are
// indexed by ID in an in-memory B-tree that is built on first use.
type UserService struct {
	store    driven.UserStore
	settings driving.SettingsService

	mu   sync.Mutex
	tree *btree.Tree[int64, domain.User]
}

// NewUserService creates a new user service.
func NewUserService(store driven.UserStore, settings driving.SettingsService) *UserService {
	return &UserService{store: store, settings: settings}
}

// Open loads stored users into a fresh index.
func (s *UserService) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open(ctx)
}

// open builds the index (caller must hold lock).
func (s *UserService) open(ctx context.Context) error {
	settings, err := s.settings.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	tree, err := btree.New[int64, domain.User](settings.BTree.Degree)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	users, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		tree.Put(u.ID, u)
	}
	s.tree = tree
	logger.Debug("user index: %d users, degree %d, height %d", tree.Len(), tree.Degree(), tree.Height())
	return nil
}

// ready opens the index on first use (caller must hold lock).
func (s *UserService) ready(ctx context.Context) error {
	if s.tree != nil {
		return nil
	}
	return s.open(ctx)
}

func (s *UserService) nextID() int64 {
	if id, _, ok := s.tree.Max(); ok {
		return id + 1
	}
	return 1
}

// Create assigns the next ID to draft and stores it.
func (s *UserService) Create(ctx context.Context, draft domain.User) (*domain.User, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	draft.ID = s.nextID()
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save user %d: %w", draft.ID, err)
	}
	s.tree.Put(draft.ID, draft)
	return &draft, nil
}

// Get looks a user up by ID and reports the comparisons it took.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.UserLookup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	u, comparisons, ok := s.tree.Lookup(id)
	logger.Debug("lookup %d: %d comparisons", id, comparisons)
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &domain.UserLookup{User: u, Comparisons: comparisons}, nil
}

// Update replaces an existing user.
func (s *UserService) Update(ctx context.Context, user domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return err
	}

	if !s.tree.Has(user.ID) {
		return fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
	}
	if err := s.store.Save(ctx, user); err != nil {
		return fmt.Errorf("save user %d: %w", user.ID, err)
	}
	s.tree.Put(user.ID, user)
	return nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return err
	}

	if !s.tree.Has(id) {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.tree.Delete(id)
	return nil
}

// Count returns the number of users.
func (s *UserService) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return s.tree.Len(), nil
}

// Page returns the zero-based page of users in ID order.
func (s *UserService) Page(ctx context.Context, index, size int) (*domain.UserPage, error) {
	if size == 0 {
		settings, err := s.settings.Get()
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		size = settings.Users.PageSize
	}
	if size < 0 || index < 0 {
		return nil, fmt.Errorf("%w: page index and size must not be negative", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	total := s.tree.Len()
	pages := domain.PageCount(total, size)
	if index > 0 && index >= pages {
		return nil, fmt.Errorf("%w: page %d of %d", domain.ErrInvalidInput, index+1, pages)
	}
	return &domain.UserPage{
		Users: s.tree.Page(index, size),
		Index: index,
		Size:  size,
		Total: total,
		Pages: pages,
	}, nil
}

// Generate appends n users named after their IDs.
func (s *UserService) Generate(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: count must be positive", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	first := s.nextID()
	users := make([]domain.User, n)
	for i := range users {
		id := first + int64(i)
		users[i] = domain.User{
			ID:       id,
			Email:    fmt.Sprintf("email%d@example.com", id),
			Username: fmt.Sprintf("user%d", id),
			Password: fmt.Sprintf("password%d", id),
		}
	}
	if err := s.store.SaveAll(ctx, users); err != nil {
		return 0, fmt.Errorf("save generated users: %w", err)
	}
	for _, u := range users {
		s.tree.Put(u.ID, u)
	}
	logger.Debug("generated users %d..%d", first, first+int64(n)-1)
	return n, nil
}

// Import reads users from CSV. Rows are id,email,username,password with an
// optional header; an empty id, or a row of only email,username,password,
// gets the next free ID. Rows with an existing ID replace that user.
func (s *UserService) Import(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: reading csv: %v", domain.ErrInvalidInput, err)
	}
	if len(records) > 0 && slices.Equal(lower(records[0]), csvHeader) {
		records = records[1:]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	next := s.nextID()
	users := make([]domain.User, 0, len(records))
	for i, rec := range records {
		var u domain.User
		switch len(rec) {
		case 3:
			u = domain.User{Email: rec[0], Username: rec[1], Password: rec[2]}
		case 4:
			u = domain.User{Email: rec[1], Username: rec[2], Password: rec[3]}
			if id := strings.TrimSpace(rec[0]); id != "" {
				parsed, err := strconv.ParseInt(id, 10, 64)
				if err != nil || parsed <= 0 {
					return 0, fmt.Errorf("%w: row %d: id %q", domain.ErrInvalidInput, i+1, rec[0])
				}
				u.ID = parsed
			}
		default:
			return 0, fmt.Errorf("%w: row %d has %d fields", domain.ErrInvalidInput, i+1, len(rec))
		}
		if err := u.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		users = append(users, u)
	}

	// explicit IDs first so generated IDs never collide with them
	for _, u := range users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	for i := range users {
		if users[i].ID == 0 {
			users[i].ID = next
			next++
		}
	}

	if err := s.store.SaveAll(ctx, users); err != nil {
		return 0, fmt.Errorf("save imported users: %w", err)
	}
	for _, u := range users {
		s.tree.Put(u.ID, u)
	}
	return len(users), nil
}

func lower(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return out
}

// Export writes every user as CSV in ID order.
func (s *UserService) Export(ctx context.Context, w io.Writer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	n := 0
	var werr error
	s.tree.Ascend(func(id int64, u domain.User) bool {
		werr = cw.Write([]string{strconv.FormatInt(id, 10), u.Email, u.Username, u.Password})
		if werr != nil {
			return false
		}
		n++
		return true
	})
	cw.Flush()
	if err := errors.Join(werr, cw.Error()); err != nil {
		return n, fmt.Errorf("write csv: %w", err)
	}
	return n, nil
}

// Clear removes every user.
func (s *UserService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	s.tree.Clear()
	return nil
}
