package cli

import (
	"github.com/spf13/cobra"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

var (
	versionManifest bool
	versionJSON     bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long: `Print the version number.

With --manifest the packaged build descriptor is printed as well: group,
encoding, entry point and test dependencies.`,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionManifest, "manifest", false, "print the build descriptor")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output the build descriptor as JSON")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	desc := domain.DefaultBuildDescriptor(version)
	if err := desc.Validate(); err != nil {
		return err
	}

	if versionJSON {
		return printJSON(cmd, desc)
	}

	cmd.Printf("ad version %s\n", version)
	if !versionManifest {
		return nil
	}

	cmd.Println()
	cmd.Printf("  Group:       %s\n", desc.Group)
	cmd.Printf("  Encoding:    %s\n", desc.Encoding)
	cmd.Printf("  %s:  %s\n", domain.ManifestMainClass, desc.EntryPoint())
	cmd.Printf("  Test runner: %s\n", desc.TestPlatform)
	cmd.Println("  Test dependencies:")
	for _, d := range desc.TestDependencies(domain.ScopeTest) {
		cmd.Printf("    %s (%s, %s)\n", d.Coordinate(), d.Scope, d.Kind)
	}
	return nil
}
