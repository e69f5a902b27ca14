package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui"
)

// TUIConfig holds configuration for the TUI command beyond the services.
type TUIConfig struct {
	// WatchConfig reports external edits of the config file so the
	// settings view can reload. Optional.
	WatchConfig func(ctx context.Context, onChange func()) error
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for ad.

The TUI pages through the B-tree user table, animates eight queens
searches, runs the ant colony, browses run history and edits settings.

Controls:
  ↑/k, ↓/j - Navigate
  ←/h, →/l - Previous / next page
  Enter    - Select / Run
  Esc      - Back / Cancel
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the app from the injected services.
func newTUIApp(ctx context.Context) (*tui.App, error) {
	ports := &tui.Ports{
		Users:    userService,
		Queens:   queensService,
		TSP:      tspService,
		History:  historyService,
		Settings: settingsService,
		Version:  version,
	}
	if tuiConfig != nil && tuiConfig.WatchConfig != nil {
		ports.WatchConfig = tuiConfig.WatchConfig
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app.WithContext(ctx), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newTUIApp(cmd.Context())
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
