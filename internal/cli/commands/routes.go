package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/patternbook/patternbook/internal/cli/ui"
	"github.com/patternbook/patternbook/internal/web/server"
)

var routesOutput string

// NewRoutesCommand creates the routes command
func NewRoutesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the HTTP routes served by 'patternbook serve'",
		Long: `List every HTTP route with its method, pattern, name and description.

Requests matching no route outside server.api_prefix are answered by the
front end, so client-side routes do not appear here.`,
		Args: cobra.NoArgs,
		RunE: runRoutes,
	}

	cmd.Flags().StringVarP(&routesOutput, "output", "o", formatTable, "Output format: table or json")

	return cmd
}

func runRoutes(cmd *cobra.Command, args []string) error {
	if err := checkFormat(routesOutput, formatTable, formatJSON); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, r := server.NewHandler(server.HandlerConfig{
		APIPrefix: cfg.Server.APIPrefix,
		Profiling: cfg.Server.Profiling,
	})
	routes := r.Routes()

	out := cmd.OutOrStdout()
	if routesOutput == formatJSON {
		return writeStructured(out, formatJSON, routes)
	}

	table := ui.NewTable(out, []string{"METHOD", "PATTERN", "NAME", "DESCRIPTION"}, &ui.TableOptions{
		NoColor: colorDisabled(),
	})
	for _, route := range routes {
		table.AddRow(route.Method, route.Pattern, route.Name, strings.TrimSpace(route.Description))
	}
	table.Render()
	return nil
}
