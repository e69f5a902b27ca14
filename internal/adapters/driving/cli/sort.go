package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/services"
)

var (
	generateSeed int64

	sortOutput  string
	sortTempDir string
	sortVerify  bool
	sortJSON    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <file> <size_mb>",
	Short: "Generate a file of random integers",
	Long: `Write random integers in [0, 1000000), one per line, until the file
reaches the requested size in megabytes.`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

var sortCmd = &cobra.Command{
	Use:   "sort <input> [memory_mb]",
	Short: "Sort a file of integers with polyphase merge sort",
	Long: `Sort a file of newline-delimited integers using an external polyphase
merge over three tapes. memory_mb bounds the size of each initial run and
defaults to the sort.memory_mb setting.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSort,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Check that a file of integers is sorted",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed (0 = time based)")

	sortCmd.Flags().StringVarP(&sortOutput, "output", "o", services.DefaultSortOutput, "sorted output file")
	sortCmd.Flags().StringVar(&sortTempDir, "temp-dir", "", "directory for tapes (default from settings)")
	sortCmd.Flags().BoolVar(&sortVerify, "verify", false, "check the output after sorting")
	sortCmd.Flags().BoolVar(&sortJSON, "json", false, "output the report as JSON")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(verifyCmd)
}

func positiveInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidInput, name, value)
	}
	return n, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if sortService == nil {
		return errors.New("sort service not configured")
	}
	sizeMB, err := positiveInt("size_mb", args[1])
	if err != nil {
		return err
	}

	report, err := sortService.Generate(cmd.Context(), args[0], sizeMB, generateSeed)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	cmd.Printf("Generated %s values (%s) in %s\n",
		humanize.Comma(report.Values), humanize.IBytes(uint64(report.Bytes)), report.Path)
	cmd.Printf("Seed: %d\n", report.Seed)
	cmd.Printf("Elapsed time: %s\n", elapsed(report.Duration))
	return nil
}

func runSort(cmd *cobra.Command, args []string) error {
	if sortService == nil {
		return errors.New("sort service not configured")
	}

	opts := domain.SortOptions{
		Input:   args[0],
		Output:  sortOutput,
		TempDir: sortTempDir,
		Verify:  sortVerify,
	}
	if len(args) == 2 {
		memoryMB, err := positiveInt("memory_mb", args[1])
		if err != nil {
			return err
		}
		opts.MemoryBytes = int64(memoryMB) * 1024 * 1024
	}

	report, err := sortService.Sort(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("sort failed: %w", err)
	}

	if sortJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("Sorted %s values into %s\n", humanize.Comma(report.Values), report.Output)
	cmd.Printf("Runs: %d (%d dummy), merge phases: %d\n", report.Runs, report.DummyRuns, report.Phases)
	if report.Verified {
		cmd.Println("Output verified: sorted")
	}
	cmd.Printf("Elapsed time: %s\n", elapsed(report.Duration))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	if sortService == nil {
		return errors.New("sort service not configured")
	}

	report, err := sortService.Verify(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !report.Sorted {
		return fmt.Errorf("%s is not sorted: line %d is out of order", args[0], report.FirstViolation)
	}
	cmd.Printf("%s is sorted (%s values)\n", args[0], humanize.Comma(report.Values))
	return nil
}
