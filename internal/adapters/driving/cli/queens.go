package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/queens"
)

var (
	queensBoard    string
	queensAnimate  bool
	queensSeed     int64
	queensLimit    int
	queensMaxNodes int
	queensJSON     bool
)

var queensCmd = &cobra.Command{
	Use:   "queens [ldfs|astar]",
	Short: "Solve the eight queens puzzle",
	Long: `Place eight queens so that no two attack each other, starting from a
given or random board with one queen per row.

  ldfs   depth-limited depth-first search (default)
  astar  A* over single-queen moves, guided by attacking pairs`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(domain.QueensLDFS), string(domain.QueensAStar)},
	RunE:      runQueens,
}

func init() {
	queensCmd.Flags().StringVar(&queensBoard, "board", "", "starting board as column digits, e.g. 15863724")
	queensCmd.Flags().BoolVar(&queensAnimate, "animate", false, "draw every examined board")
	queensCmd.Flags().Int64Var(&queensSeed, "seed", 0, "random board seed (0 = time based)")
	queensCmd.Flags().IntVar(&queensLimit, "limit", domain.BoardSize, "LDFS depth limit")
	queensCmd.Flags().IntVar(&queensMaxNodes, "max-nodes", 0, "A* node budget (default from settings)")
	queensCmd.Flags().BoolVar(&queensJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(queensCmd)
}

func runQueens(cmd *cobra.Command, args []string) error {
	if queensService == nil {
		return errors.New("queens service not configured")
	}

	req := domain.QueensRequest{
		Algorithm:  domain.QueensLDFS,
		Seed:       queensSeed,
		MaxNodes:   queensMaxNodes,
	}
	if cmd.Flags().Changed("limit") {
		req.DepthLimit = &queensLimit
	}
	if len(args) == 1 {
		req.Algorithm = domain.QueensAlgorithm(args[0])
	}
	if queensBoard != "" {
		b, err := domain.ParseBoard(queensBoard)
		if err != nil {
			return err
		}
		req.Board = &b
	}

	onBoard, err := boardAnimator(cmd)
	if err != nil {
		return err
	}

	result, err := queensService.Solve(cmd.Context(), req, onBoard)
	if queensJSON && result != nil {
		if jerr := printJSON(cmd, result); jerr != nil {
			return jerr
		}
		return err
	}
	if result != nil {
		printQueensResult(cmd, result)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", req.Algorithm, err)
	}
	return nil
}

// boardAnimator returns an observer that redraws the board in place, or nil
// when animation is off or stdout is not a terminal.
func boardAnimator(cmd *cobra.Command) (func(domain.Board), error) {
	if !queensAnimate {
		return nil, nil
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	delay := time.Duration(settings.Queens.DelayMS) * time.Millisecond

	return animateBoards(cmd.Context(), f, delay), nil
}

// animateBoards redraws each board on w and waits delay. Once ctx is done
// it neither draws nor waits, so the search reaches its next cancellation
// check quickly.
func animateBoards(ctx context.Context, w io.Writer, delay time.Duration) func(domain.Board) {
	return func(b domain.Board) {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(w, "\033[H\033[2J")
		fmt.Fprintln(w, boardStyle.Render(queens.Render(b)))

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
}

func printQueensResult(cmd *cobra.Command, r *domain.QueensResult) {
	cmd.Println(headerStyle.Render(r.Algorithm.Description()))
	cmd.Printf("Initial board: %s (%d attacking pairs)\n", r.Initial, queens.Attacks(r.Initial))
	cmd.Println(boardStyle.Render(queens.Render(r.Initial)))
	if r.Solved {
		cmd.Printf("Solution: %s\n", r.Solution)
		cmd.Println(boardStyle.Render(queens.Render(r.Solution)))
	} else {
		cmd.Println("No solution found")
	}
	cmd.Printf("Iterations: %s\n", humanize.Comma(int64(r.Stats.Iterations)))
	cmd.Printf("Total nodes: %s\n", humanize.Comma(int64(r.Stats.TotalNodes)))
	cmd.Printf("Max nodes in memory: %s\n", humanize.Comma(int64(r.Stats.MaxNodesInMemory)))
}
