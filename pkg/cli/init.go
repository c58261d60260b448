package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mocklet/mocklet/pkg/config"
)

// starterConfig is the default config written by `mocklet init`.
const starterConfig = `# mocklet configuration
# Each route matches by path fragment (substring) and method.
routes:
  - path: /hello
    method: GET
    response:
      message: Hello from mocklet

  - path: /echo
    method: POST
    response:
      echo: "you sent {data}"

  - path: /plain
    method: GET
    content_type: text/plain
    response: plain text response
`

var initFlags struct {
	output      string
	force       bool
	interactive bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Example: `  # Write mocklet.yaml with example routes
  mocklet init

  # Build the first route interactively
  mocklet init --interactive

  # Overwrite an existing file
  mocklet init --force -o mocks.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initFlags.output, "output", "o", "mocklet.yaml", "Output filename")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVarP(&initFlags.interactive, "interactive", "i", false, "Prompt for the first route instead of writing examples")
}

func runInit(cmd *cobra.Command) error {
	if _, err := os.Stat(initFlags.output); err == nil && !initFlags.force {
		return fmt.Errorf("file already exists: %s (use --force to overwrite)", initFlags.output)
	}

	content := []byte(starterConfig)
	if initFlags.interactive {
		doc, err := promptRoute()
		if err != nil {
			return err
		}
		content, err = yaml.Marshal(doc)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(initFlags.output, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", initFlags.output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n\nStart serving with:\n  mocklet serve -f %s\n", initFlags.output, initFlags.output)
	return nil
}

// promptRoute builds a single-route document from an interactive form.
func promptRoute() (*config.Document, error) {
	var (
		path        string
		method      string
		statusStr   = "200"
		contentType string
		body        string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What path fragment should the route match?").
				Placeholder("/api/users").
				Value(&path).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("path is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("What HTTP method should it respond to?").
				Options(
					huh.NewOption("GET", "GET"),
					huh.NewOption("POST", "POST"),
					huh.NewOption("PUT", "PUT"),
					huh.NewOption("DELETE", "DELETE"),
					huh.NewOption("PATCH", "PATCH"),
				).
				Value(&method),
			huh.NewInput().
				Title("What status code should it return?").
				Value(&statusStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 100 || n > 599 {
						return errors.New("must be a status code between 100 and 599")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("What content type?").
				Options(
					huh.NewOption("application/json", "application/json"),
					huh.NewOption("text/plain", "text/plain"),
				).
				Value(&contentType),
			huh.NewText().
				Title("Response body (YAML or JSON; {data} echoes the request payload)").
				Placeholder(`{"status": "ok"}`).
				Value(&body),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	status, _ := strconv.Atoi(statusStr)

	// The body text parses as a YAML value, which covers JSON too; an
	// unparsable body is kept as a literal string.
	var response any
	if err := yaml.Unmarshal([]byte(body), &response); err != nil {
		response = body
	}

	return &config.Document{Routes: []config.RouteConfig{{
		Path:        path,
		Method:      method,
		StatusCode:  status,
		ContentType: contentType,
		Response:    response,
	}}}, nil
}
