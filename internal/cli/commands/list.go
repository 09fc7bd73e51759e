package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patternbook/patternbook/internal/cli/ui"
	"github.com/patternbook/patternbook/internal/content"
)

var (
	listCategory string
	listOutput   string
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all patterns",
		Long: `List every pattern in the content tree, ordered by title.

Patterns without an index document are not listed; run 'patternbook check'
to find them.`,
		Example: `  patternbook list
  patternbook list --category Behavioral
  patternbook list -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringVar(&listCategory, "category", "", "Only list patterns in this category (case-insensitive)")
	cmd.Flags().StringVarP(&listOutput, "output", "o", formatTable, "Output format: table, json or yaml")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(listOutput, formatTable, formatJSON, formatYAML); err != nil {
		return err
	}

	_, ix, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	patterns := ix.ListAll()
	if listCategory != "" {
		patterns = ix.ListByCategory(listCategory)
	}
	if patterns == nil {
		patterns = []content.Metadata{}
	}

	out := cmd.OutOrStdout()
	if listOutput != formatTable {
		return writeStructured(out, listOutput, patterns)
	}

	if len(patterns) == 0 {
		if listCategory != "" {
			fmt.Fprint(out, ui.Warning(fmt.Sprintf("No patterns in category '%s'.", listCategory),
				ui.FindSimilar(listCategory, ix.Categories(), nil), colorDisabled()))
			return nil
		}
		fmt.Fprint(out, ui.Info("No patterns found.", colorDisabled()))
		return nil
	}

	table := ui.NewTable(out, []string{"SLUG", "TITLE", "CATEGORY", "DIFFICULTY"}, &ui.TableOptions{
		NoColor:      colorDisabled(),
		MaxCellWidth: 40,
	})
	for _, p := range patterns {
		table.AddRow(p.Slug, p.Title, p.Category, p.Difficulty)
	}
	table.Render()

	fmt.Fprintf(out, "\n%d pattern(s)\n", table.Len())
	return nil
}
