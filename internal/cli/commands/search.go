package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patternbook/patternbook/internal/cli/ui"
	"github.com/patternbook/patternbook/internal/content"
)

var searchOutput string

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search patterns by title, slug and content",
		Long: `Search patterns with approximate matching. Misspelled words still match
when they are close enough; search.threshold in patternbook.yml controls how
close. Results are ordered best match first.`,
		Example: `  patternbook search observer
  patternbook search factroy method
  patternbook search notify -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVarP(&searchOutput, "output", "o", formatTable, "Output format: table or json")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(searchOutput, formatTable, formatJSON); err != nil {
		return err
	}

	_, ix, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results := ix.Search(query)
	if results == nil {
		results = []content.Metadata{}
	}

	out := cmd.OutOrStdout()
	if searchOutput == formatJSON {
		return writeStructured(out, formatJSON, struct {
			Query   string             `json:"query"`
			Count   int                `json:"count"`
			Results []content.Metadata `json:"results"`
		}{query, len(results), results})
	}

	if len(results) == 0 {
		fmt.Fprint(out, ui.Info(fmt.Sprintf("No patterns match '%s'.", query), colorDisabled()))
		return nil
	}

	table := ui.NewTable(out, []string{"#", "SLUG", "TITLE", "CATEGORY"}, &ui.TableOptions{
		NoColor:      colorDisabled(),
		MaxCellWidth: 40,
	})
	for i, p := range results {
		table.AddRow(fmt.Sprintf("%d", i+1), p.Slug, p.Title, p.Category)
	}
	table.Render()
	return nil
}
