package cli

import (
	"github.com/spf13/cobra"

	"github.com/stubd/stubd/pkg/cli/internal/output"
	"github.com/stubd/stubd/pkg/config"
	"github.com/stubd/stubd/pkg/portability"
)

type exportFlags struct {
	configPath string
	output     string
	yaml       bool
	title      string
	version    string
	skipFiles  bool
}

var exportFlagVals exportFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Describe the routes as an OpenAPI 3.0 document",
	Long: `Describe the reachable routes as an OpenAPI 3.0 document.

Each route becomes one operation whose 200 response carries the payload as
its example. Expected query parameters become required parameters, and
routes answering 400 or 404 under some conditions document those responses
too. The output is YAML when --yaml is set or the output file ends in
.yml/.yaml.`,
	Example: `  # JSON to stdout
  stubd export

  # YAML file, without reading payload files
  stubd export -f api.yml -o openapi.yaml --skip-files`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := &exportFlagVals
	addFileFlag(exportCmd, &f.configPath)
	exportCmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&f.yaml, "yaml", false, "Output YAML instead of JSON")
	exportCmd.Flags().StringVar(&f.title, "title", "", "Document title (default: stubd)")
	exportCmd.Flags().StringVar(&f.version, "api-version", "", "Version of the described API (default: 1.0.0)")
	exportCmd.Flags().BoolVar(&f.skipFiles, "skip-files", false, "Leave file-backed payloads out of the examples")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	f := &exportFlagVals
	cfg, err := loadConfig(configPath(f.configPath))
	if err != nil {
		return err
	}

	asYAML := f.yaml || (f.output != "" && config.FormatFromPath(f.output) == config.FormatYAML)
	data, err := portability.ExportOpenAPI(cfg, portability.ExportOptions{
		Title:     f.title,
		Version:   f.version,
		AsYAML:    asYAML,
		SkipFiles: f.skipFiles,
	})
	if err != nil {
		return err
	}
	return output.Document(cmd.OutOrStdout(), f.output, data)
}
