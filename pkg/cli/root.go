// Package cli implements the mocklet command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build.
	Version = "dev"
	// Commit is injected during build.
	Commit = "none"
	// BuildDate is injected during build.
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mocklet",
	Short: "mocklet is a declarative mock HTTP responder",
	Long: `mocklet serves a YAML-defined set of route rules over HTTP. Each rule maps
a path fragment and method to a canned response; a {data} token in the
response is replaced with the incoming request's payload.

The rule set is loaded once at startup and is immutable for the lifetime
of the process.`,
	SilenceUsage:  true,
	SilenceErrors: true, // errors are printed once in Execute
}

// Execute runs the CLI. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveConfigPath picks the config file path: explicit flag first, then
// the MOCKLET_CONFIG environment variable, then the default filename.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("MOCKLET_CONFIG"); env != "" {
		return env
	}
	return "mocklet.yaml"
}
