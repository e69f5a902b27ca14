package aco

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// epsilon keeps zero-length edges and tours finite.
const epsilon = 1e-10

// Observer receives the colony state every ReportEvery iterations.
type Observer func(domain.IterationStat)

type ant struct {
	tour     []int
	visited  []bool
	length   float64
	cost     float64
	complete bool
}

type colony struct {
	g         *Graph
	p         domain.ACOParams
	n         int
	pheromone [][]float64
	etaBeta   [][]float64
	weight    [][]float64
	ants      []ant
}

func newColony(g *Graph, p domain.ACOParams, tau0 float64) *colony {
	n := g.N()
	c := &colony{
		g:         g,
		p:         p,
		n:         n,
		pheromone: make([][]float64, n),
		etaBeta:   make([][]float64, n),
		weight:    make([][]float64, n),
		ants:      make([]ant, p.Ants),
	}
	for i := 0; i < n; i++ {
		c.pheromone[i] = make([]float64, n)
		c.etaBeta[i] = make([]float64, n)
		c.weight[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			c.pheromone[i][j] = tau0
			if !g.Feasible(i, j) {
				continue
			}
			blend := p.DistanceWeight*g.Distance[i][j] + p.CostWeight*g.Cost[i][j]
			c.etaBeta[i][j] = math.Pow(1/(blend+epsilon), p.Beta)
		}
	}
	for k := range c.ants {
		c.ants[k] = ant{
			tour:    make([]int, 0, n),
			visited: make([]bool, n),
		}
	}
	return c
}

// refreshWeights recomputes tau^alpha * eta^beta for every edge. The
// matrix is read-only while ants build their tours.
func (c *colony) refreshWeights() {
	for i := 0; i < c.n; i++ {
		for j := 0; j < c.n; j++ {
			if c.etaBeta[i][j] == 0 {
				c.weight[i][j] = 0
				continue
			}
			c.weight[i][j] = math.Pow(c.pheromone[i][j], c.p.Alpha) * c.etaBeta[i][j]
		}
	}
}

// build walks one ant from a random start until every vertex is visited
// or no edge leads on.
func (c *colony) build(a *ant, rng *rand.Rand) {
	a.tour = a.tour[:0]
	clear(a.visited)
	a.complete = false

	cur := rng.IntN(c.n)
	a.tour = append(a.tour, cur)
	a.visited[cur] = true

	for len(a.tour) < c.n {
		next := c.choose(a, cur, rng)
		if next < 0 {
			return
		}
		a.tour = append(a.tour, next)
		a.visited[next] = true
		cur = next
	}
	if c.n > 1 && !c.g.Feasible(cur, a.tour[0]) {
		return
	}
	a.length, a.cost = c.g.TourLength(a.tour)
	a.complete = true
}

// choose picks the next vertex by roulette over edge weights. When every
// weight underflows to zero the choice is uniform over open edges.
func (c *colony) choose(a *ant, cur int, rng *rand.Rand) int {
	row := c.weight[cur]
	var sum float64
	open := 0
	for j := 0; j < c.n; j++ {
		if a.visited[j] || !c.g.Feasible(cur, j) {
			continue
		}
		open++
		sum += row[j]
	}
	if open == 0 {
		return -1
	}

	if sum > 0 {
		target := rng.Float64() * sum
		var acc float64
		last := -1
		for j := 0; j < c.n; j++ {
			if a.visited[j] || !c.g.Feasible(cur, j) {
				continue
			}
			acc += row[j]
			last = j
			if acc >= target && row[j] > 0 {
				return j
			}
		}
		return last
	}

	pick := rng.IntN(open)
	for j := 0; j < c.n; j++ {
		if a.visited[j] || !c.g.Feasible(cur, j) {
			continue
		}
		if pick == 0 {
			return j
		}
		pick--
	}
	return -1
}

// deposit adds amount to every edge of a closed tour.
func (c *colony) deposit(tour []int, amount float64) {
	for i, from := range tour {
		to := tour[(i+1)%len(tour)]
		c.pheromone[from][to] += amount
		if c.p.Symmetric {
			c.pheromone[to][from] += amount
		}
	}
}

// update evaporates pheromone and lets every complete ant deposit Q/L.
// It returns the iteration-best ant, or nil if no ant completed.
func (c *colony) update() *ant {
	keep := 1 - c.p.Rho
	for i := range c.pheromone {
		for j := range c.pheromone[i] {
			c.pheromone[i][j] *= keep
		}
	}

	var best *ant
	for k := range c.ants {
		a := &c.ants[k]
		if !a.complete {
			continue
		}
		c.deposit(a.tour, c.p.Q/math.Max(a.length, epsilon))
		if best == nil || a.length < best.length {
			best = a
		}
	}
	if best != nil && c.p.Elitists > 0 {
		c.deposit(best.tour, float64(c.p.Elitists)*c.p.Q/math.Max(best.length, epsilon))
	}
	return best
}

// Solve runs the colony on g. Ant tours within an iteration are built in
// parallel; results depend only on seed. If ctx is cancelled the best tour
// found so far is returned together with the context error.
func Solve(ctx context.Context, g *Graph, p domain.ACOParams, seed int64, obs Observer) (domain.TourResult, error) {
	start := time.Now()
	var result domain.TourResult

	if err := p.Validate(); err != nil {
		return result, err
	}
	n := g.N()
	if n < 2 {
		return result, fmt.Errorf("%w: graph needs at least 2 vertices, got %d", domain.ErrInvalidInput, n)
	}

	greedy, greedyErr := GreedyLength(g)
	if greedyErr == nil {
		result.GreedyLength = greedy
	}
	tau0 := p.InitialPheromone
	if tau0 == 0 {
		tau0 = 1
		if greedyErr == nil && greedy > 0 {
			tau0 = 1 / greedy
		}
	}

	c := newColony(g, p, tau0)
	master := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	rngs := make([]*rand.Rand, p.Ants)
	workers := runtime.GOMAXPROCS(0)

	bestLength := math.Inf(1)
	for it := 1; it <= p.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		c.refreshWeights()
		for k := range rngs {
			rngs[k] = rand.New(rand.NewPCG(master.Uint64(), master.Uint64()))
		}

		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(workers)
		for k := range c.ants {
			eg.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				c.build(&c.ants[k], rngs[k])
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		improved := false
		if best := c.update(); best != nil && best.length < bestLength {
			bestLength = best.length
			result.Tour = append(result.Tour[:0], best.tour...)
			result.Length = best.length
			result.Cost = best.cost
			improved = true
		}
		result.Iterations = it

		if p.ReportEvery > 0 && (it%p.ReportEvery == 0 || it == p.Iterations) && result.Tour != nil {
			stat := domain.IterationStat{Iteration: it, BestLength: bestLength, Improved: improved}
			result.History = append(result.History, stat)
			if obs != nil {
				obs(stat)
			}
		}
	}

	result.Duration = time.Since(start)
	if result.Tour == nil {
		return result, fmt.Errorf("after %d iterations: %w", p.Iterations, domain.ErrIncompleteTour)
	}
	return result, nil
}
