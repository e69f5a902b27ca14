package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/services"
)

var (
	tspIterations    int
	tspQuality       int
	tspAnts          int
	tspAlpha         float64
	tspBeta          float64
	tspRho           float64
	tspRounds        int
	tspVertices      int
	tspTwoCriteria   bool
	tspShowDistances bool
	tspSeed          int64
	tspJSON          bool

	tuneTimeLimit string
	tuneMode      string
	tuneCities    int
	tuneWorkers   int
	tuneSeed      int64
	tuneJSON      bool
)

var tspCmd = &cobra.Command{
	Use:   "tsp",
	Short: "Ant colony optimisation for the travelling salesman problem",
}

var tspSolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a random instance with the ant colony",
	Long: `Generate a random complete graph and search for the shortest closed
tour. Each round after the first grows iterations and quality by half.

Parameters default to the aco.* settings; --two-criteria switches to the
elitist colony on an asymmetric distance and cost instance.`,
	Args: cobra.NoArgs,
	RunE: runTSPSolve,
}

var tspTuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Search colony parameters on a two-criteria instance",
	Long: `Evaluate parameter combinations in parallel until the grid is
exhausted or the time limit passes, then report the best combination.

Modes:
  grid    evaluate combinations in order
  refine  grid pass, then re-run the best combination while it improves

Time limits accept ms, s, m and h suffixes; a bare number means seconds.`,
	Args: cobra.NoArgs,
	RunE: runTSPTune,
}

func init() {
	f := tspSolveCmd.Flags()
	f.IntVar(&tspIterations, "iterations", 0, "iterations of the first round (default from settings)")
	f.IntVar(&tspQuality, "quality", 0, "report progress every n iterations (default from settings)")
	f.IntVar(&tspAnts, "ants", 0, "colony size (default from settings)")
	f.Float64Var(&tspAlpha, "alpha", 0, "pheromone weight (default from settings)")
	f.Float64Var(&tspBeta, "beta", 0, "heuristic weight (default from settings)")
	f.Float64Var(&tspRho, "rho", 0, "evaporation rate (default from settings)")
	f.IntVar(&tspRounds, "rounds", 3, "number of rounds")
	f.IntVar(&tspVertices, "vertices", 0, "number of vertices (default from settings)")
	f.BoolVar(&tspTwoCriteria, "two-criteria", false, "use the elitist two-criteria colony")
	f.BoolVar(&tspShowDistances, "show-distances", false, "print the distance matrix")
	f.Int64Var(&tspSeed, "seed", 0, "random seed (0 = time based)")
	f.BoolVar(&tspJSON, "json", false, "output the report as JSON")

	f = tspTuneCmd.Flags()
	f.StringVar(&tuneTimeLimit, "time-limit", "", "time limit, e.g. 500ms, 30s, 5m (default from settings)")
	f.StringVar(&tuneMode, "mode", string(domain.TuneGrid), "search mode: grid or refine")
	f.IntVar(&tuneCities, "cities", 0, "number of cities (default from settings)")
	f.IntVar(&tuneWorkers, "workers", 0, "parallel trials (default from settings)")
	f.Int64Var(&tuneSeed, "seed", 0, "random seed (0 = time based)")
	f.BoolVar(&tuneJSON, "json", false, "output the result as JSON")

	tspCmd.AddCommand(tspSolveCmd)
	tspCmd.AddCommand(tspTuneCmd)
	rootCmd.AddCommand(tspCmd)
}

// solveParams starts from the configured colony and applies the flags the
// user actually set.
func solveParams(cmd *cobra.Command) (domain.ACOParams, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return domain.ACOParams{}, fmt.Errorf("failed to load settings: %w", err)
	}
	p := settings.ClassicParams()
	if tspTwoCriteria {
		p = domain.ElitistACOParams()
	}

	flags := cmd.Flags()
	if flags.Changed("iterations") {
		p.Iterations = tspIterations
	}
	if flags.Changed("quality") {
		p.ReportEvery = tspQuality
	}
	if flags.Changed("ants") {
		p.Ants = tspAnts
	}
	if flags.Changed("alpha") {
		p.Alpha = tspAlpha
	}
	if flags.Changed("beta") {
		p.Beta = tspBeta
	}
	if flags.Changed("rho") {
		p.Rho = tspRho
	}
	return p, p.Validate()
}

func runTSPSolve(cmd *cobra.Command, _ []string) error {
	if tspService == nil || settingsService == nil {
		return errors.New("tsp service not configured")
	}
	params, err := solveParams(cmd)
	if err != nil {
		return err
	}

	req := domain.TSPRequest{
		Vertices:    tspVertices,
		TwoCriteria: tspTwoCriteria,
		Params:      params,
		Rounds:      tspRounds,
		Seed:        tspSeed,
	}

	var onIteration func(int, domain.IterationStat)
	if !tspJSON {
		onIteration = func(round int, stat domain.IterationStat) {
			cmd.Printf("Round %d, iteration %d: best length %.0f\n", round, stat.Iteration, stat.BestLength)
		}
	}

	report, err := tspService.Solve(cmd.Context(), req, onIteration)
	if err != nil {
		return fmt.Errorf("tsp solve failed: %w", err)
	}

	if tspJSON {
		return printJSON(cmd, report)
	}

	if tspShowDistances {
		cmd.Println(headerStyle.Render("Distances"))
		cmd.Println(formatMatrix(report.Distance))
	}

	t := newTable("Round", "Iterations", "Greedy", "Best", "Elapsed")
	for _, r := range report.Rounds {
		t.Row(
			strconv.Itoa(r.Round),
			strconv.Itoa(r.Params.Iterations),
			fmt.Sprintf("%.0f", r.Result.GreedyLength),
			fmt.Sprintf("%.0f", r.Result.Length),
			elapsed(r.Result.Duration),
		)
	}
	cmd.Printf("Vertices: %d, seed: %d\n", report.Vertices, report.Seed)
	cmd.Println(t.Render())

	if n := len(report.Rounds); n > 0 {
		best := report.Rounds[n-1].Result
		cmd.Printf("Best tour: %s\n", formatTour(best.Tour))
	}
	return nil
}

func runTSPTune(cmd *cobra.Command, _ []string) error {
	if tspService == nil {
		return errors.New("tsp service not configured")
	}

	req := domain.TuneRequest{
		Cities:  tuneCities,
		Mode:    domain.TuneMode(tuneMode),
		Workers: tuneWorkers,
		Seed:    tuneSeed,
	}
	if !req.Mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q (use grid or refine)", domain.ErrInvalidInput, tuneMode)
	}
	if tuneTimeLimit != "" {
		d, err := services.ParseDuration(tuneTimeLimit)
		if err != nil {
			return err
		}
		req.TimeLimit = d
	}

	var onTrial func(domain.Trial)
	if !tuneJSON {
		best := 0.0
		onTrial = func(t domain.Trial) {
			if best == 0 || t.Length < best {
				best = t.Length
				cmd.Printf("New best %.2f: %s\n", t.Length, t.Params)
			}
		}
	}

	result, err := tspService.Tune(cmd.Context(), req, onTrial)
	if err != nil {
		return fmt.Errorf("tsp tune failed: %w", err)
	}

	if tuneJSON {
		return printJSON(cmd, result)
	}

	if result.TimedOut {
		cmd.Println("Time limit reached")
	}
	cmd.Printf("Evaluated %s combinations in %s\n", humanize.Comma(int64(result.Evaluated)), elapsed(result.Duration))
	cmd.Printf("Best parameters: %s\n", result.Best)
	cmd.Printf("Best length: %.2f\n", result.Length)
	return nil
}

func formatMatrix(m [][]float64) string {
	var sb strings.Builder
	for _, row := range m {
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%4.0f", v)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func formatTour(tour []int) string {
	if len(tour) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(tour)+1)
	for _, v := range tour {
		parts = append(parts, strconv.Itoa(v))
	}
	parts = append(parts, strconv.Itoa(tour[0]))
	return strings.Join(parts, " -> ")
}
