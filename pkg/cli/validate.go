package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stubd/stubd/pkg/cli/internal/output"
	"github.com/stubd/stubd/pkg/config"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a config file without serving it",
	Long: `Check a config file without serving it.

This command checks:
  - YAML or JSON syntax and the document structure
  - methods, content types, paths and timeouts of every route
  - included route files

Warnings are printed for routes that load but will not behave as expected:
JSON bodies that do not parse, routes shadowed by an earlier route, and
missing payload files. Only errors make the command fail.`,
	Example: `  stubd validate
  stubd validate -f stubs/api.yml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	addFileFlag(validateCmd, &validateFile)
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	path := configPath(validateFile)
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(path)
	if err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			if result, ok := config.AsValidationResult(err); ok {
				for _, w := range result.Warnings {
					output.Warn(cmd.ErrOrStderr(), "%s", w.Error())
				}
				return fmt.Errorf("%w: %s: %d error(s)\n%s", ErrInvalidConfig, path, len(result.Errors), result.Error())
			}
		}
		return err
	}

	warnings := cfg.Check().Warnings
	for _, w := range warnings {
		output.Warn(cmd.ErrOrStderr(), "%s", w.Error())
	}
	fmt.Fprintf(out, "%s is valid: %d route(s), %d warning(s)\n", path, len(cfg.APIs), len(warnings))
	return nil
}
