// Command ad is the algorithms and data structures workbench.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikeepcalm/ad/internal/adapters/driven/config/file"
	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/sqlite"
	"github.com/ikeepcalm/ad/internal/adapters/driving/cli"
	"github.com/ikeepcalm/ad/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

// run wires the adapters and executes the command line. Errors returned
// by commands are already printed by cobra.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fail("loading config", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fail("reading settings", err)
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fail("opening store", err)
	}
	defer store.Close()

	runs := store.RunStore()
	cli.SetServices(cli.Services{
		Settings: settingsService,
		Sort:     services.NewSortService(settingsService, runs),
		Queens:   services.NewQueensService(settingsService, runs),
		Users:    services.NewUserService(store.UserStore(), settingsService),
		TSP:      services.NewTSPService(settingsService, runs),
		History:  services.NewHistoryService(runs),
	})
	cli.SetTUIConfig(&cli.TUIConfig{WatchConfig: configStore.Watch})
	cli.SetVersion(version)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

func fail(action string, err error) int {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", action, err)
	return 1
}
