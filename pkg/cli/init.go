package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/stubd/stubd/pkg/config"
)

type initFlags struct {
	output      string
	force       bool
	interactive bool
}

var initFlagVals initFlags

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Long: `Create a starter config file with one GET / route that expects the query
parameters name and age and answers "hello world".

With --interactive, stubd asks for the server settings and the first route.
The encoding follows the file extension (.yml/.yaml or .json).`,
	Example: `  # Write ./api.yml
  stubd init

  # Answer a few questions first
  stubd init -i -o stubs/api.yml

  # JSON config, replacing an existing file
  stubd init -o api.json --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	f := &initFlagVals
	initCmd.Flags().StringVarP(&f.output, "output", "o", config.DefaultFileName, "Output filename")
	initCmd.Flags().BoolVar(&f.force, "force", false, "Overwrite an existing file")
	initCmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "Prompt for the server settings and the first route")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	f := &initFlagVals

	if _, err := os.Stat(f.output); err == nil && !f.force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, f.output)
	}

	cfg := config.Default()
	if f.interactive {
		answers := defaultInitAnswers()
		if err := askInitAnswers(&answers); err != nil {
			return err
		}
		var err error
		if cfg, err = answers.config(); err != nil {
			return err
		}
	}

	if err := config.SaveToFile(f.output, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d route(s)\n", f.output, len(cfg.APIs))
	fmt.Fprintf(cmd.OutOrStdout(), "Start it with: stubd -f %s\n", f.output)
	return nil
}

// initAnswers holds the interactive form fields as typed.
type initAnswers struct {
	Host        string
	Port        string
	Base        string
	CORS        bool
	Method      string
	URL         string
	Query       string
	ContentType string
	Data        string
}

func defaultInitAnswers() initAnswers {
	d := config.Default()
	api := d.APIs[0]
	return initAnswers{
		Host:        d.Host,
		Port:        strconv.Itoa(d.Port),
		Base:        d.Base,
		CORS:        d.CORS,
		Method:      api.Request.Method.String(),
		URL:         api.Request.URL,
		Query:       strings.Join(api.Request.Query, ","),
		ContentType: api.Response.ContentType.String(),
		Data:        api.Response.Data,
	}
}

// config turns the answers into a validated configuration.
func (a initAnswers) config() (*config.ServerConfig, error) {
	port, err := strconv.Atoi(strings.TrimSpace(a.Port))
	if err != nil {
		return nil, fmt.Errorf("invalid port %q", a.Port)
	}

	cfg := config.Default()
	cfg.Host = strings.TrimSpace(a.Host)
	cfg.Port = port
	cfg.Base = strings.TrimSpace(a.Base)
	cfg.CORS = a.CORS

	route := config.Route{
		Request: config.RequestPattern{
			Method: config.ParseMethod(a.Method),
			URL:    strings.TrimSpace(a.URL),
			Query:  splitNames(a.Query),
		},
		Response: config.ResponseTemplate{
			ContentType: config.ParseContentType(a.ContentType),
			Data:        a.Data,
		},
	}
	cfg.APIs = []config.Route{route}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w:\n%w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// splitNames parses a comma separated list of query parameter names. An
// empty list means the route declares no contract.
func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

func askInitAnswers(a *initAnswers) error {
	methods := make([]string, 0, len(config.Methods))
	for _, m := range config.Methods {
		methods = append(methods, m.String())
	}
	contentTypes := make([]string, 0, len(config.ContentTypes))
	for _, c := range config.ContentTypes {
		contentTypes = append(contentTypes, c.String())
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Which address should stubd bind to?").
				Value(&a.Host),
			huh.NewInput().
				Title("Which port?").
				Value(&a.Port).
				Validate(func(s string) error {
					p, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || p < 0 || p > 65535 {
						return errors.New("port must be a number between 0 and 65535")
					}
					return nil
				}),
			huh.NewInput().
				Title("Base path joined to every route").
				Value(&a.Base).
				Validate(requireLeadingSlash),
			huh.NewConfirm().
				Title("Add permissive CORS headers?").
				Value(&a.CORS),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("First route: which method?").
				Options(huh.NewOptions(methods...)...).
				Value(&a.Method),
			huh.NewInput().
				Title("Path, relative to the base").
				Placeholder("/users").
				Value(&a.URL).
				Validate(requireLeadingSlash),
			huh.NewInput().
				Title("Expected query parameters (comma separated, empty for any)").
				Value(&a.Query),
			huh.NewSelect[string]().
				Title("Response content type").
				Options(huh.NewOptions(contentTypes...)...).
				Value(&a.ContentType),
			huh.NewText().
				Title("Response body").
				Value(&a.Data),
		),
	)
	return form.Run()
}

func requireLeadingSlash(s string) error {
	if !strings.HasPrefix(strings.TrimSpace(s), "/") {
		return errors.New("must start with '/'")
	}
	return nil
}
