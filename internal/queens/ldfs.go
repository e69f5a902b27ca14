package queens

import (
	"context"
	"fmt"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

type ldfs struct {
	ctx   context.Context
	limit int
	obs   Observer
	board domain.Board
	stats domain.SolveStats
}

// SolveLDFS places queens row by row with backtracking, never descending
// deeper than limit rows. Row d first keeps the queen's current column and
// then tries the remaining columns in ascending order; a column is taken
// only if no queen in an earlier row attacks it. A limit below the board
// size cannot place every queen and yields domain.ErrNoSolution; a
// negative limit is domain.ErrInvalidInput.
func SolveLDFS(ctx context.Context, b domain.Board, limit int, obs Observer) (domain.Board, domain.SolveStats, error) {
	if limit < 0 {
		return b, domain.SolveStats{}, fmt.Errorf("%w: depth limit %d is negative", domain.ErrInvalidInput, limit)
	}
	s := &ldfs{ctx: ctx, limit: limit, obs: obs, board: b}

	ok, err := s.solve(0)
	if err != nil {
		return b, s.stats, err
	}
	if !ok {
		return b, s.stats, fmt.Errorf("ldfs with depth limit %d: %w", limit, domain.ErrNoSolution)
	}
	return s.board, s.stats, nil
}

func (s *ldfs) solve(row int) (bool, error) {
	s.stats.Iterations++
	s.stats.TotalNodes++
	if row+1 > s.stats.MaxNodesInMemory {
		s.stats.MaxNodesInMemory = row + 1
	}
	if s.obs != nil {
		s.obs(s.board)
	}
	if s.stats.Iterations%1024 == 0 {
		if err := s.ctx.Err(); err != nil {
			return false, err
		}
	}

	if row == domain.BoardSize {
		return true, nil
	}
	if row >= s.limit {
		return false, nil
	}

	original := s.board[row]
	for _, col := range columnOrder(original) {
		s.stats.TotalNodes++
		if !s.safe(row, col) {
			continue
		}
		s.board[row] = col
		ok, err := s.solve(row + 1)
		if err != nil || ok {
			return ok, err
		}
	}
	s.board[row] = original
	return false, nil
}

// safe reports whether a queen at (row, col) is free from the queens in
// rows above it.
func (s *ldfs) safe(row int, col int8) bool {
	for r := 0; r < row; r++ {
		c := s.board[r]
		d := int(col) - int(c)
		if d == 0 || d == row-r || d == r-row {
			return false
		}
	}
	return true
}

func columnOrder(first int8) []int8 {
	order := make([]int8, 0, domain.BoardSize)
	order = append(order, first)
	for c := int8(0); c < domain.BoardSize; c++ {
		if c != first {
			order = append(order, c)
		}
	}
	return order
}
