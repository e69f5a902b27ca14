// Package aco solves the travelling salesman problem with ant colony
// optimisation.
//
// A Graph holds a distance matrix and, for two-criteria instances, a cost
// matrix. Ants build closed tours edge by edge, choosing the next vertex
// with probability proportional to tau^alpha * eta^beta, where tau is the
// pheromone on the edge and eta = 1/(wd*d + wc*c) its heuristic value.
// After every iteration pheromone evaporates and each complete tour
// deposits Q/L on its edges; elitist ants reinforce the iteration-best
// tour further.
package aco

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// Graph is a complete directed graph. A negative or infinite distance
// marks a missing edge.
type Graph struct {
	Distance [][]float64
	Cost     [][]float64
}

// NewGraph allocates an n-vertex graph with zero distances and costs.
func NewGraph(n int) *Graph {
	g := &Graph{
		Distance: make([][]float64, n),
		Cost:     make([][]float64, n),
	}
	for i := range n {
		g.Distance[i] = make([]float64, n)
		g.Cost[i] = make([]float64, n)
	}
	return g
}

// N returns the number of vertices.
func (g *Graph) N() int {
	return len(g.Distance)
}

// Feasible reports whether the edge i->j exists.
func (g *Graph) Feasible(i, j int) bool {
	d := g.Distance[i][j]
	return i != j && d >= 0 && !math.IsInf(d, 1)
}

// RandomSymmetric returns a symmetric graph with integer distances
// floor(U * maxDistance), U uniform in [0, 1).
func RandomSymmetric(n, maxDistance int, rng *rand.Rand) *Graph {
	g := NewGraph(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Floor(rng.Float64() * float64(maxDistance))
			g.Distance[i][j] = d
			g.Distance[j][i] = d
		}
	}
	return g
}

// Bounds of two-criteria instances.
const (
	MinDistance = 5.0
	MaxDistance = 150.0
	MinCost     = 1.0
	MaxCost     = 100.0
)

// RandomTwoCriteria returns a graph with distances in [5, 150) and costs
// in [1, 100). Each vertex pair is symmetric with probability one half;
// otherwise both directions are drawn independently.
func RandomTwoCriteria(n int, rng *rand.Rand) *Graph {
	g := NewGraph(n)
	draw := func() (float64, float64) {
		d := MinDistance + (MaxDistance-MinDistance)*rng.Float64()
		c := MinCost + (MaxCost-MinCost)*rng.Float64()
		return d, c
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			symmetric := rng.IntN(2) == 0
			d, c := draw()
			g.Distance[i][j], g.Cost[i][j] = d, c
			if symmetric {
				g.Distance[j][i], g.Cost[j][i] = d, c
			} else {
				g.Distance[j][i], g.Cost[j][i] = draw()
			}
		}
	}
	return g
}

// TourLength returns the length and cost of the closed tour.
func (g *Graph) TourLength(tour []int) (float64, float64) {
	var length, cost float64
	for i, from := range tour {
		to := tour[(i+1)%len(tour)]
		length += g.Distance[from][to]
		cost += g.Cost[from][to]
	}
	return length, cost
}

// ValidTour reports whether tour visits every vertex exactly once over
// existing edges, including the edge back to the start.
func (g *Graph) ValidTour(tour []int) bool {
	n := g.N()
	if len(tour) != n {
		return false
	}
	seen := make([]bool, n)
	for i, v := range tour {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
		if n > 1 && !g.Feasible(v, tour[(i+1)%n]) {
			return false
		}
	}
	return true
}

// Greedy builds a nearest-neighbour closed tour starting at vertex 0.
func Greedy(g *Graph) ([]int, float64, error) {
	n := g.N()
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: empty graph", domain.ErrInvalidInput)
	}
	visited := make([]bool, n)
	tour := make([]int, 0, n)
	cur := 0
	visited[0] = true
	tour = append(tour, 0)

	for len(tour) < n {
		next := -1
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if !visited[j] && g.Feasible(cur, j) && g.Distance[cur][j] < best {
				best = g.Distance[cur][j]
				next = j
			}
		}
		if next == -1 {
			return nil, 0, fmt.Errorf("greedy tour stuck at vertex %d: %w", cur, domain.ErrIncompleteTour)
		}
		visited[next] = true
		tour = append(tour, next)
		cur = next
	}
	if n > 1 && !g.Feasible(cur, 0) {
		return nil, 0, fmt.Errorf("greedy tour cannot close: %w", domain.ErrIncompleteTour)
	}
	length, _ := g.TourLength(tour)
	return tour, length, nil
}

// GreedyLength returns the length of the nearest-neighbour tour.
func GreedyLength(g *Graph) (float64, error) {
	_, l, err := Greedy(g)
	return l, err
}
