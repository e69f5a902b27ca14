package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
)

// runStore implements driven.RunStore. Start times are stored as Unix
// nanoseconds so they order numerically.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

const runColumns = "id, kind, params, summary, started_at, duration_ns, error"

// Record stores a finished run.
func (s *runStore) Record(ctx context.Context, run domain.Run) error {
	if run.ID == "" || !run.Kind.IsValid() {
		return fmt.Errorf("%w: run needs an id and a known kind", domain.ErrInvalidInput)
	}
	db, err := s.store.conn()
	if err != nil {
		return err
	}

	params := string(run.Params)
	if params == "" {
		params = "{}"
	}
	var summary sql.NullString
	if len(run.Summary) > 0 {
		summary = sql.NullString{String: string(run.Summary), Valid: true}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Kind), params, summary,
		run.StartedAt.UnixNano(), int64(run.Duration), run.Error)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.Run, error) {
	db, err := s.store.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// List returns runs matching the filter, newest first.
func (s *runStore) List(ctx context.Context, filter domain.RunFilter) ([]domain.Run, error) {
	db, err := s.store.conn()
	if err != nil {
		return nil, err
	}

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString("SELECT " + runColumns + " FROM runs")
	if filter.Kind != "" {
		query.WriteString(" WHERE kind = ?")
		args = append(args, string(filter.Kind))
	}
	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Clear removes every run.
func (s *runStore) Clear(ctx context.Context) (int, error) {
	db, err := s.store.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("clearing runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared runs: %w", err)
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (domain.Run, error) {
	var (
		run                  domain.Run
		kind, params, errMsg string
		summary              sql.NullString
		startedAt, duration  int64
	)
	if err := row.Scan(&run.ID, &kind, &params, &summary, &startedAt, &duration, &errMsg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scanning run: %w", err)
	}
	run.Kind = domain.RunKind(kind)
	run.Params = json.RawMessage(params)
	if summary.Valid {
		run.Summary = json.RawMessage(summary.String)
	}
	run.StartedAt = time.Unix(0, startedAt).UTC()
	run.Duration = time.Duration(duration)
	run.Error = errMsg
	return run, nil
}
