package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

var (
	historyKind  string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `List recorded runs, newest first. Every generate, sort, queens, tsp
and tune execution is recorded with its parameters and summary.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded run",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "only runs of this kind (generate, sort, queens, tsp, tune)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	filter := domain.RunFilter{Kind: domain.RunKind(historyKind), Limit: historyLimit}
	runs, err := historyService.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if historyJSON {
		return printJSON(cmd, runs)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	t := newTable("ID", "Kind", "Started", "Duration", "Status")
	for _, r := range runs {
		status := "ok"
		if !r.Succeeded() {
			status = "failed: " + r.Error
		}
		t.Row(r.ID, string(r.Kind), humanize.Time(r.StartedAt), elapsed(r.Duration), status)
	}
	cmd.Println(t.Render())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	run, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, run)
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	n, err := historyService.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	cmd.Printf("Deleted %d runs\n", n)
	return nil
}
