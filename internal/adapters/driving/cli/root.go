// Package cli implements the ad command line on top of cobra. Services are
// injected by main through SetServices before Execute runs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ikeepcalm/ad/internal/core/ports/driving"
	"github.com/ikeepcalm/ad/internal/logger"
)

// version is the binary version, overridden by ldflags through SetVersion.
var version = "dev"

var verbose bool

// Services injected by main.
var (
	settingsService driving.SettingsService
	sortService     driving.SortService
	queensService   driving.QueensService
	userService     driving.UserService
	tspService      driving.TSPService
	historyService  driving.HistoryService
)

// Services bundles the driving ports the commands use.
type Services struct {
	Settings driving.SettingsService
	Sort     driving.SortService
	Queens   driving.QueensService
	Users    driving.UserService
	TSP      driving.TSPService
	History  driving.HistoryService
}

var rootCmd = &cobra.Command{
	Use:   "ad",
	Short: "Algorithms and data structures workbench",
	Long: `ad bundles classic algorithmic workloads behind one command line:

  generate, sort   external polyphase merge sort of integer files
  queens           eight queens by depth-limited DFS or A*
  users            a user table indexed by a B-tree
  tsp              ant colony optimisation and parameter tuning
  history          every recorded run

Run "ad tui" for the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress to stderr")
}

// SetVersion sets the version reported by "ad version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices injects the services the commands call.
func SetServices(s Services) {
	settingsService = s.Settings
	sortService = s.Sort
	queensService = s.Queens
	userService = s.Users
	tspService = s.TSP
	historyService = s.History
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
