package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/core/services"
	"github.com/ikeepcalm/ad/internal/logger"
)

// testStores exposes the in-memory stores behind the test services.
type testStores struct {
	config *memory.ConfigStore
	users  *memory.UserStore
	runs   *memory.RunStore
}

// setupTestServices wires real services over in-memory stores. The
// previous services are restored when the test ends.
func setupTestServices(t *testing.T) *testStores {
	t.Helper()
	prev := Services{
		Settings: settingsService,
		Sort:     sortService,
		Queens:   queensService,
		Users:    userService,
		TSP:      tspService,
		History:  historyService,
	}

	stores := &testStores{
		config: memory.NewConfigStore(),
		users:  memory.NewUserStore(),
		runs:   memory.NewRunStore(),
	}
	settings := services.NewSettingsService(stores.config)
	SetServices(Services{
		Settings: settings,
		Sort:     services.NewSortService(settings, stores.runs),
		Queens:   services.NewQueensService(settings, stores.runs),
		Users:    services.NewUserService(stores.users, settings),
		TSP:      services.NewTSPService(settings, stores.runs),
		History:  services.NewHistoryService(stores.runs),
	})

	t.Cleanup(func() { SetServices(prev) })
	return stores
}

// execute runs the root command with args and returns what it printed.
// Flags are reset afterwards so package-level flag variables do not leak
// between tests.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags([]*cobra.Command{rootCmd})
		logger.SetVerbose(false)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmds []*cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	for _, c := range cmds {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		resetFlags(c.Commands())
	}
}
