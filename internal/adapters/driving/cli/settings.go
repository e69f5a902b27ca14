package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure engine defaults: sort memory, B-tree degree, user
page size, queens budgets, colony parameters and tuner limits.

Values are stored in the TOML config file reported by "ad settings path".`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Set a single key. The value is parsed for the key's type and the
resulting settings are validated before anything is saved.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore the default of a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runSettingsPath,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Walk through every setting. Press Enter to keep the current value.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")
	settingsShowCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	entries, err := settingsService.Entries()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settingsJSON {
		return printJSON(cmd, entries)
	}

	t := newTable("Key", "Value", "Source")
	for _, e := range entries {
		source := "config"
		if e.Default {
			source = "default"
		}
		value := e.Value
		if value == "" {
			value = "(not set)"
		}
		t.Row(e.Key, value, source)
	}
	cmd.Println(t.Render())
	cmd.Printf("Config file: %s\n", settingsService.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	cmd.Printf("%s restored to its default\n", args[0])
	return nil
}

func runSettingsPath(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	cmd.Println(settingsService.Path())
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	entries, err := settingsService.Entries()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("ad Settings Wizard")
	cmd.Println("==================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	changed := 0
	for _, e := range entries {
		cmd.Printf("%s [%s]: ", e.Key, e.Value)
		input := readLine(reader)
		if input == "" || input == e.Value {
			continue
		}
		if err := settingsService.Set(e.Key, input); err != nil {
			cmd.Printf("  %v, keeping %s\n", err, e.Value)
			continue
		}
		changed++
	}

	cmd.Println()
	cmd.Printf("Configuration complete: %d settings changed.\n", changed)
	return nil
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n') //nolint:errcheck // EOF keeps the current value
	return strings.TrimSpace(line)
}
