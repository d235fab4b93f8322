package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/stubd/stubd/internal/matching"
	"github.com/stubd/stubd/pkg/cli/internal/output"
	"github.com/stubd/stubd/pkg/config"
)

type routesFlags struct {
	configPath string
	json       bool
}

var routesFlagVals routesFlags

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the effective route table in match order",
	Long: `Print the effective route table in match order: base path applied,
included files appended. Routes hidden behind an earlier route with the same
method and path are marked as shadowed.`,
	Example: `  stubd routes
  stubd routes -f stubs/api.yml --json`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

func init() {
	f := &routesFlagVals
	addFileFlag(routesCmd, &f.configPath)
	routesCmd.Flags().BoolVar(&f.json, "json", false, "Output the table as JSON")
	rootCmd.AddCommand(routesCmd)
}

// RouteRow is one line of the route table.
type RouteRow struct {
	Index         int      `json:"index"`
	Method        string   `json:"method"`
	Path          string   `json:"path"`
	QueryContract bool     `json:"queryContract"`
	Query         []string `json:"query,omitempty"`
	ContentType   string   `json:"contentType"`
	File          string   `json:"file,omitempty"`
	DelaySeconds  int      `json:"delaySeconds,omitempty"`
	ShadowedBy    *int     `json:"shadowedBy,omitempty"`
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	f := &routesFlagVals
	cfg, err := loadConfig(configPath(f.configPath))
	if err != nil {
		return err
	}

	rows := routeRows(cfg)
	out := cmd.OutOrStdout()
	if f.json {
		return output.JSON(out, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No routes configured")
		return nil
	}

	w := output.Table(out)
	fmt.Fprintln(w, "#\tMETHOD\tPATH\tQUERY\tTYPE\tPAYLOAD\tDELAY")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Index, r.Method, r.Path, queryColumn(r), r.ContentType, payloadColumn(cfg, r), delayColumn(r))
	}
	return w.Flush()
}

// routeRows lists cfg's routes with their full paths, marking every route
// that an earlier route with the same method and path makes unreachable.
func routeRows(cfg *config.ServerConfig) []RouteRow {
	rows := make([]RouteRow, 0, len(cfg.APIs))
	first := make(map[string]int, len(cfg.APIs))
	for i, api := range cfg.APIs {
		row := RouteRow{
			Index:         i,
			Method:        api.Request.Method.String(),
			Path:          matching.JoinPath(cfg.Base, api.Request.URL),
			QueryContract: api.Request.HasQueryContract(),
			Query:         api.Request.Query,
			ContentType:   api.Response.ContentType.String(),
			DelaySeconds:  max(api.Response.Timeout, 0),
		}
		if api.Response.FileBacked() {
			row.File = api.Response.Data
		}

		key := row.Method + " " + row.Path
		if idx, ok := first[key]; ok {
			row.ShadowedBy = &idx
		} else {
			first[key] = i
		}
		rows = append(rows, row)
	}
	return rows
}

func queryColumn(r RouteRow) string {
	switch {
	case !r.QueryContract:
		return "*"
	case len(r.Query) == 0:
		return "(none)"
	default:
		return strings.Join(r.Query, ",")
	}
}

func payloadColumn(cfg *config.ServerConfig, r RouteRow) string {
	if r.ShadowedBy != nil {
		return fmt.Sprintf("shadowed by #%d", *r.ShadowedBy)
	}
	if r.File != "" {
		return "file:" + r.File
	}
	return truncate(strings.Join(strings.Fields(cfg.APIs[r.Index].Response.Data), " "), 32)
}

func delayColumn(r RouteRow) string {
	if r.DelaySeconds == 0 {
		return "-"
	}
	return fmt.Sprintf("%ds", r.DelaySeconds)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
