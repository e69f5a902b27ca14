package domain

import (
	"fmt"
	"strings"
)

// BoardSize is the side of the chess board and the number of queens.
const BoardSize = 8

// Board places one queen per row; Board[row] is the queen's column.
type Board [BoardSize]int8

// ParseBoard reads a board from its compact form, e.g. "15863724" (one
// column digit 1-8 per row). Spaces are ignored.
func ParseBoard(s string) (Board, error) {
	var b Board
	compact := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if len(compact) != BoardSize {
		return b, fmt.Errorf("%w: board needs %d columns, got %q", ErrInvalidInput, BoardSize, s)
	}
	for row, c := range compact {
		if c < '1' || c > '0'+BoardSize {
			return b, fmt.Errorf("%w: column %q out of range", ErrInvalidInput, c)
		}
		b[row] = int8(c - '1')
	}
	return b, nil
}

// String returns the compact form: one 1-based column digit per row.
func (b Board) String() string {
	var sb strings.Builder
	for _, col := range b {
		sb.WriteByte(byte('1' + col))
	}
	return sb.String()
}

// MarshalText encodes the board in its compact form.
func (b Board) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes the compact form.
func (b *Board) UnmarshalText(text []byte) error {
	parsed, err := ParseBoard(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// QueensAlgorithm selects a search strategy.
type QueensAlgorithm string

// Available algorithms.
const (
	// QueensLDFS is depth-limited depth-first search.
	QueensLDFS QueensAlgorithm = "ldfs"

	// QueensAStar is A* over single-queen moves.
	QueensAStar QueensAlgorithm = "astar"
)

// IsValid returns true if the algorithm is recognised.
func (a QueensAlgorithm) IsValid() bool {
	return a == QueensLDFS || a == QueensAStar
}

// String returns the string representation.
func (a QueensAlgorithm) String() string {
	return string(a)
}

// Description returns a human-readable name.
func (a QueensAlgorithm) Description() string {
	switch a {
	case QueensLDFS:
		return "LDFS (depth-limited depth-first search)"
	case QueensAStar:
		return "A* (attacking pairs heuristic)"
	default:
		return "Unknown"
	}
}

// SolveStats counts the work a queens search performed.
type SolveStats struct {
	// Iterations is the number of expanded states.
	Iterations int `json:"iterations"`

	// TotalNodes is the number of generated or examined states.
	TotalNodes int `json:"total_nodes"`

	// MaxNodesInMemory is the peak number of states held at once.
	MaxNodesInMemory int `json:"max_nodes_in_memory"`
}

// QueensRequest asks for a board to be solved.
type QueensRequest struct {
	Algorithm QueensAlgorithm `json:"algorithm"`
	// Board is the starting position. Nil means a random board.
	Board *Board `json:"board,omitempty"`
	// Seed drives the random board. Zero picks a time-based seed.
	Seed int64 `json:"seed,omitempty"`
	// DepthLimit bounds LDFS. Nil means BoardSize.
	DepthLimit *int `json:"depth_limit,omitempty"`
	// MaxNodes bounds A*. Zero means the configured default.
	MaxNodes int `json:"max_nodes,omitempty"`
}

// QueensResult is the outcome of a queens search.
type QueensResult struct {
	Algorithm QueensAlgorithm `json:"algorithm"`
	Initial   Board           `json:"initial"`
	Solution  Board           `json:"solution"`
	Solved    bool            `json:"solved"`
	Stats     SolveStats      `json:"stats"`
}
