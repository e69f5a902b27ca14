package queens

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

type state struct {
	board domain.Board
	g     int
	h     int
}

func (s state) f() int {
	return s.g + s.h
}

// openList is a min-heap ordered by f, then h.
type openList []state

func (o openList) Len() int { return len(o) }
func (o openList) Less(i, j int) bool {
	if o[i].f() != o[j].f() {
		return o[i].f() < o[j].f()
	}
	return o[i].h < o[j].h
}
func (o openList) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openList) Push(x any)   { *o = append(*o, x.(state)) }
func (o *openList) Pop() any {
	old := *o
	n := len(old)
	x := old[n-1]
	*o = old[:n-1]
	return x
}

// SolveAStar searches for a solution by moving one queen within its row
// per step. The heuristic is the number of attacking pairs. Generating
// more than maxNodes states yields domain.ErrSearchExhausted.
func SolveAStar(ctx context.Context, b domain.Board, maxNodes int, obs Observer) (domain.Board, domain.SolveStats, error) {
	var stats domain.SolveStats

	open := &openList{{board: b, h: Attacks(b)}}
	closed := make(map[domain.Board]struct{})
	stats.TotalNodes = 1

	for open.Len() > 0 {
		cur := heap.Pop(open).(state)
		if _, seen := closed[cur.board]; seen {
			continue
		}
		closed[cur.board] = struct{}{}
		stats.Iterations++
		if obs != nil {
			obs(cur.board)
		}

		if cur.h == 0 {
			return cur.board, stats, nil
		}
		if stats.Iterations%256 == 0 {
			if err := ctx.Err(); err != nil {
				return b, stats, err
			}
		}

		for row := 0; row < domain.BoardSize; row++ {
			for col := int8(0); col < domain.BoardSize; col++ {
				if col == cur.board[row] {
					continue
				}
				next := cur.board
				next[row] = col
				if _, seen := closed[next]; seen {
					continue
				}
				heap.Push(open, state{board: next, g: cur.g + 1, h: Attacks(next)})
				stats.TotalNodes++
			}
		}

		if inMem := open.Len() + len(closed); inMem > stats.MaxNodesInMemory {
			stats.MaxNodesInMemory = inMem
		}
		if maxNodes > 0 && stats.TotalNodes > maxNodes {
			return b, stats, fmt.Errorf("a* after %d nodes: %w", stats.TotalNodes, domain.ErrSearchExhausted)
		}
	}
	return b, stats, fmt.Errorf("a*: %w", domain.ErrNoSolution)
}
