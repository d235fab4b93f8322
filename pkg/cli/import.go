package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stubd/stubd/pkg/cli/internal/output"
	"github.com/stubd/stubd/pkg/config"
	"github.com/stubd/stubd/pkg/portability"
)

type importFlags struct {
	output string
	append bool
	force  bool
}

var importFlagVals importFlags

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Turn an OpenAPI 3 document into routes",
	Long: `Turn an OpenAPI 3 document (JSON or YAML) into stubd routes.

Every operation becomes one route. Its payload is the example of the lowest
2xx response, preferring JSON content, and its query parameters become the
expected parameter set. Path templates such as /pets/{id} are kept as
literal paths and reported as warnings.

Without -o the resulting config is printed to stdout. With --append the
routes are added after those of an existing config file.`,
	Example: `  # Print a config built from petstore.yaml
  stubd import petstore.yaml

  # Write it to api.yml
  stubd import petstore.yaml -o api.yml --force

  # Add the routes to an existing config
  stubd import extra.json -o api.yml --append`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	f := &importFlagVals
	importCmd.Flags().StringVarP(&f.output, "output", "o", "", "Config file to write (default: stdout)")
	importCmd.Flags().BoolVar(&f.append, "append", false, "Append the routes to the existing output file")
	importCmd.Flags().BoolVar(&f.force, "force", false, "Overwrite an existing output file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f := &importFlagVals

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	result, err := portability.ImportOpenAPI(data)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		output.Warn(cmd.ErrOrStderr(), "%s", w)
	}

	cfg, err := importTarget(f)
	if err != nil {
		return err
	}
	cfg.APIs = append(cfg.APIs, result.Routes...)

	if f.output == "" {
		encoded, err := config.Encode(cfg, config.FormatYAML)
		if err != nil {
			return err
		}
		return output.Document(cmd.OutOrStdout(), "", encoded)
	}
	if err := config.SaveToFile(f.output, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d route(s) into %s\n", len(result.Routes), f.output)
	return nil
}

// importTarget returns the config the imported routes are added to: the
// existing output file with --append, otherwise an empty default config.
func importTarget(f *importFlags) (*config.ServerConfig, error) {
	exists := false
	if f.output != "" {
		if _, err := os.Stat(f.output); err == nil {
			exists = true
		}
	}

	if f.append {
		if f.output == "" {
			return nil, fmt.Errorf("--append needs an output file (-o)")
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, f.output)
		}
		data, err := os.ReadFile(f.output)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.output, err)
		}
		cfg, err := config.Parse(data, config.FormatFromPath(f.output))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.output, err)
		}
		return cfg, nil
	}

	if exists && !f.force {
		return nil, fmt.Errorf("%w: %s (use --force to overwrite or --append to extend)", ErrConfigExists, f.output)
	}
	cfg := config.Default()
	cfg.APIs = nil
	return cfg, nil
}
