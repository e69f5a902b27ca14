package domain

import (
	"fmt"
	"time"
)

// ACOParams configures an ant colony run.
type ACOParams struct {
	// Ants is the colony size per iteration.
	Ants int `json:"ants"`

	// Iterations is the number of colony iterations.
	Iterations int `json:"iterations"`

	// Alpha weights pheromone in the transition rule.
	Alpha float64 `json:"alpha"`

	// Beta weights the heuristic in the transition rule.
	Beta float64 `json:"beta"`

	// Rho is the evaporation rate in [0, 1].
	Rho float64 `json:"rho"`

	// Q scales pheromone deposits: each ant deposits Q/L.
	Q float64 `json:"q"`

	// Elitists adds Elitists*Q/L* on the iteration-best tour. Zero disables it.
	Elitists int `json:"elitists"`

	// DistanceWeight and CostWeight blend the two edge criteria into the
	// heuristic 1/(wd*d + wc*c). With CostWeight zero the heuristic is 1/d.
	DistanceWeight float64 `json:"distance_weight"`
	CostWeight     float64 `json:"cost_weight"`

	// InitialPheromone seeds every edge. Zero means 1/L of the greedy tour.
	InitialPheromone float64 `json:"initial_pheromone"`

	// Symmetric deposits pheromone on both directions of an edge.
	Symmetric bool `json:"symmetric"`

	// ReportEvery emits a progress event every n iterations. Zero disables it.
	ReportEvery int `json:"report_every"`
}

// ClassicACOParams returns the single-criterion colony: 45 ants,
// alpha 3, beta 2, rho 0.3, pheromone seeded from the greedy tour.
func ClassicACOParams() ACOParams {
	return ACOParams{
		Ants:           45,
		Iterations:     1000,
		Alpha:          3.0,
		Beta:           2.0,
		Rho:            0.3,
		Q:              1.0,
		DistanceWeight: 1.0,
		Symmetric:      true,
		ReportEvery:    20,
	}
}

// ElitistACOParams returns the two-criteria elitist colony used for tuning.
func ElitistACOParams() ACOParams {
	return ACOParams{
		Ants:             30,
		Iterations:       100,
		Alpha:            1.0,
		Beta:             3.0,
		Rho:              0.5,
		Q:                100,
		Elitists:         3,
		DistanceWeight:   0.7,
		CostWeight:       0.3,
		InitialPheromone: 1.0,
	}
}

// Validate checks parameter ranges.
func (p ACOParams) Validate() error {
	switch {
	case p.Ants < 1:
		return fmt.Errorf("%w: ants must be positive", ErrInvalidInput)
	case p.Iterations < 1:
		return fmt.Errorf("%w: iterations must be positive", ErrInvalidInput)
	case p.Rho < 0 || p.Rho > 1:
		return fmt.Errorf("%w: rho must be within [0, 1]", ErrInvalidInput)
	case p.Q <= 0:
		return fmt.Errorf("%w: q must be positive", ErrInvalidInput)
	case p.Elitists < 0:
		return fmt.Errorf("%w: elitists must not be negative", ErrInvalidInput)
	case p.DistanceWeight < 0 || p.CostWeight < 0 || p.DistanceWeight+p.CostWeight == 0:
		return fmt.Errorf("%w: criterion weights must be non-negative and not both zero", ErrInvalidInput)
	case p.InitialPheromone < 0:
		return fmt.Errorf("%w: initial pheromone must not be negative", ErrInvalidInput)
	}
	return nil
}

// String renders the parameters the way tuning reports them.
func (p ACOParams) String() string {
	return fmt.Sprintf("Ants=%d, Iterations=%d, Alpha=%.1f, Beta=%.1f, Rho=%.2f, Q=%.1f, Elitists=%d",
		p.Ants, p.Iterations, p.Alpha, p.Beta, p.Rho, p.Q, p.Elitists)
}

// IterationStat records the colony state after one iteration.
type IterationStat struct {
	Iteration  int     `json:"iteration"`
	BestLength float64 `json:"best_length"`
	Improved   bool    `json:"improved"`
}

// TourResult is the best closed tour an ACO run found.
type TourResult struct {
	// Tour lists vertices in visiting order; the return to Tour[0] is implied.
	Tour         []int           `json:"tour"`
	Length       float64         `json:"length"`
	Cost         float64         `json:"cost"`
	GreedyLength float64         `json:"greedy_length"`
	Iterations   int             `json:"iterations"`
	History      []IterationStat `json:"history,omitempty"`
	Duration     time.Duration   `json:"duration"`
}

// TSPRequest asks for a random instance to be generated and solved.
type TSPRequest struct {
	Vertices int `json:"vertices"`
	// TwoCriteria generates an asymmetric distance+cost instance.
	TwoCriteria bool `json:"two_criteria,omitempty"`
	// MaxDistance bounds symmetric instance distances.
	MaxDistance int `json:"max_distance,omitempty"`
	// Params of the first round. Zero Ants means the configured defaults.
	Params ACOParams `json:"params"`
	// Rounds repeats the run, growing iterations and report interval by
	// half each round.
	Rounds int `json:"rounds"`
	// Seed drives the instance and the colony. Zero picks a time-based seed.
	Seed int64 `json:"seed"`
}

// TSPReport is the outcome of a TSPRequest.
type TSPReport struct {
	Seed     int64 `json:"seed"`
	Vertices int   `json:"vertices"`
	// Distance is the generated distance matrix.
	Distance [][]float64 `json:"-"`
	Rounds   []TSPRound  `json:"rounds"`
}

// TSPRound is one round of a TSPRequest.
type TSPRound struct {
	Round  int        `json:"round"`
	Params ACOParams  `json:"params"`
	Result TourResult `json:"result"`
}

// TuneMode selects how the tuner walks the parameter grid.
type TuneMode string

// Tune modes.
const (
	// TuneGrid evaluates combinations in order until time runs out.
	TuneGrid TuneMode = "grid"

	// TuneRefine runs a grid pass, then re-runs the best combination
	// while it keeps improving.
	TuneRefine TuneMode = "refine"
)

// IsValid returns true if the mode is recognised.
func (m TuneMode) IsValid() bool {
	return m == TuneGrid || m == TuneRefine
}

// ParamGrid lists candidate values for each parameter.
type ParamGrid struct {
	Ants       []int     `json:"ants"`
	Iterations []int     `json:"iterations"`
	Alpha      []float64 `json:"alpha"`
	Beta       []float64 `json:"beta"`
	Rho        []float64 `json:"rho"`
	Q          []float64 `json:"q"`
	Elitists   []int     `json:"elitists"`
}

// DefaultParamGrid returns the grid used to tune the elitist colony.
func DefaultParamGrid() ParamGrid {
	return ParamGrid{
		Ants:       []int{10, 30, 50, 70, 100},
		Iterations: []int{50, 100, 150},
		Alpha:      []float64{1.0, 1.5, 2.5, 4.5},
		Beta:       []float64{3.0, 5.0, 1.8, 2.0},
		Rho:        []float64{0.2, 0.45, 0.5, 0.6},
		Q:          []float64{25, 100, 250, 300, 500},
		Elitists:   []int{0, 1, 3, 5, 10},
	}
}

// Size returns the number of combinations in the grid.
func (g ParamGrid) Size() int {
	return len(g.Ants) * len(g.Iterations) * len(g.Alpha) * len(g.Beta) *
		len(g.Rho) * len(g.Q) * len(g.Elitists)
}

// TuneRequest asks for a time-boxed parameter search.
type TuneRequest struct {
	Cities    int           `json:"cities"`
	Grid      ParamGrid     `json:"grid"`
	Mode      TuneMode      `json:"mode"`
	TimeLimit time.Duration `json:"time_limit"`
	Workers   int           `json:"workers"`
	Seed      int64         `json:"seed"`
}

// Trial is one evaluated parameter combination.
type Trial struct {
	Params ACOParams `json:"params"`
	Length float64   `json:"length"`
	// Improved is set when this trial beat every earlier one.
	Improved bool `json:"improved"`
}

// TuneResult is the outcome of a parameter search.
type TuneResult struct {
	Best      ACOParams     `json:"best"`
	BestTour  []int         `json:"best_tour"`
	Length    float64       `json:"length"`
	Evaluated int           `json:"evaluated"`
	Trials    []Trial       `json:"trials"`
	TimedOut  bool          `json:"timed_out"`
	Duration  time.Duration `json:"duration"`
}
