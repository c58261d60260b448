package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mocklet/mocklet/pkg/config"
	"github.com/mocklet/mocklet/pkg/rule"
)

var validateFlags struct {
	configPath string
	verbose    bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file without starting the server",
	Long: `Validate a mocklet configuration file without serving it.

Checks YAML/JSON syntax, required fields, status code ranges, and warns
about routes that can never match (empty fragments, shadowed rules).`,
	Example: `  # Validate config in the current directory
  mocklet validate

  # Validate a specific file, listing every route
  mocklet validate -f mocks.yaml --verbose`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath(validateFlags.configPath)
		return runValidate(path, validateFlags.verbose, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.configPath, "config", "f", "", "Config file path (default: mocklet.yaml, or $MOCKLET_CONFIG)")
	validateCmd.Flags().BoolVar(&validateFlags.verbose, "verbose", false, "List every route after validation")
}

func runValidate(path string, verbose bool, out io.Writer) error {
	doc, err := config.Load(path)
	if err != nil {
		return err
	}

	result := config.Validate(doc)

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning.Error())
	}
	if !result.IsValid() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Error())
		}
		return fmt.Errorf("%s: %d validation error(s)", path, len(result.Errors))
	}

	fmt.Fprintf(out, "%s: OK (%d routes", path, len(doc.Routes))
	if n := len(result.Warnings); n > 0 {
		fmt.Fprintf(out, ", %d warnings", n)
	}
	fmt.Fprintln(out, ")")

	if verbose {
		for _, route := range doc.Routes {
			status := route.StatusCode
			if status == 0 {
				status = rule.DefaultStatusCode
			}
			contentType := route.ContentType
			if contentType == "" {
				contentType = rule.DefaultContentType
			}
			fmt.Fprintf(out, "  %-7s %-30s -> %d %s\n", route.Method, route.Path, status, contentType)
		}
	}
	return nil
}
