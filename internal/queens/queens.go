// Package queens solves the eight queens puzzle from a starting board with
// one queen per row, either by depth-limited depth-first search or by A*
// over single-queen moves.
package queens

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// Observer is called with every board a search examines.
type Observer func(domain.Board)

// Random returns a board with one queen placed uniformly in every row.
func Random(rng *rand.Rand) domain.Board {
	var b domain.Board
	for row := range b {
		b[row] = int8(rng.IntN(domain.BoardSize))
	}
	return b
}

// Attacks counts pairs of queens that share a column or a diagonal.
func Attacks(b domain.Board) int {
	n := 0
	for i := 0; i < domain.BoardSize; i++ {
		for j := i + 1; j < domain.BoardSize; j++ {
			if attacking(b, i, j) {
				n++
			}
		}
	}
	return n
}

func attacking(b domain.Board, i, j int) bool {
	if b[i] == b[j] {
		return true
	}
	dc := int(b[i]) - int(b[j])
	dr := j - i
	return dc == dr || dc == -dr
}

// IsSolution reports whether no two queens attack each other.
func IsSolution(b domain.Board) bool {
	return Attacks(b) == 0
}

// Render draws the board framed by file letters and rank numbers.
func Render(b domain.Board) string {
	var sb strings.Builder
	files := "  " + strings.Join(strings.Split("abcdefgh"[:domain.BoardSize], ""), " ")
	sb.WriteString(files)
	sb.WriteByte('\n')
	sb.WriteString(" " + strings.Repeat("_", 2*domain.BoardSize+2) + "\n")
	for row := 0; row < domain.BoardSize; row++ {
		rank := strconv.Itoa(row + 1)
		sb.WriteString(rank + "|")
		for col := 0; col < domain.BoardSize; col++ {
			if int(b[row]) == col {
				sb.WriteString("Q ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString("|" + rank + "\n")
	}
	sb.WriteString(" " + strings.Repeat("_", 2*domain.BoardSize+2) + "\n")
	sb.WriteString(files)
	sb.WriteByte('\n')
	return sb.String()
}
