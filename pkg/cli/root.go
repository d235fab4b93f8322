package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd serves the configured routes when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "stubd",
	Short: "stubd serves canned HTTP responses from a YAML route table",
	Long: `stubd is a declaratively configured HTTP stub server.

Each route in the config file pairs a method, a path and an optional set of
expected query parameters with a canned response: literal text, JSON or HTML,
or the contents of a file read on first use. Routes are matched in file order.

Without -f, stubd reads api.yml from the working directory and writes a
starter file there if it does not exist.`,
	Example: `  # Serve ./api.yml (created on first run)
  stubd

  # Serve a specific file on another port
  stubd -f mocks/api.yml --port 9000

  # Let the OS pick a port and print the URL
  stubd -f api.yml --port 0 --print-url`,
	Args:          cobra.NoArgs,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true, // errors are printed by Run
}

// Run executes the command line and returns the process exit code.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// Execute runs the command line and exits. It is called by main.main().
func Execute() {
	os.Exit(Run())
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("stubd {{.Version}}\n")
}
