package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patternbook/patternbook/internal/cli/ui"
	"github.com/patternbook/patternbook/internal/content"
)

var checkStrict bool

// CheckReport lists content problems found in an index
type CheckReport struct {
	Root     string
	Patterns int
	// Orphans are slugs with documents but no index document.
	Orphans []string
	// MissingVariants maps a slug to the variants it has no document for.
	MissingVariants map[string][]content.Variant
	// MissingFields maps a slug to the preamble keys its index document lacks.
	MissingFields map[string][]string
}

// Clean reports whether nothing at all was found
func (r *CheckReport) Clean() bool {
	return len(r.Orphans) == 0 && len(r.MissingVariants) == 0 && len(r.MissingFields) == 0
}

// requiredFields are the index preamble keys without a meaningful default
var requiredFields = []string{content.KeyTitle, content.KeyCategory}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the content tree for incomplete patterns",
		Long: `Build the index and report:

  • patterns that have documents but no index document (they are not listed)
  • patterns missing the solution, standard or optimized documents
  • index documents whose preamble lacks a title or category

With --strict, patterns without an index document make the command fail.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	cmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit non-zero when a pattern has no index document")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, ix, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	report := checkIndex(ix)
	report.Root = cfg.Content.Root
	writeCheckReport(cmd.OutOrStdout(), report)

	if checkStrict && len(report.Orphans) > 0 {
		return fmt.Errorf("%d pattern(s) without an index document", len(report.Orphans))
	}
	return nil
}

// checkIndex inspects every pattern of ix
func checkIndex(ix *content.Catalog) *CheckReport {
	report := &CheckReport{
		Patterns:        ix.Len(),
		Orphans:         ix.Orphans(),
		MissingVariants: make(map[string][]content.Variant),
		MissingFields:   make(map[string][]string),
	}

	for _, slug := range ix.Slugs() {
		present := make(map[content.Variant]bool)
		for _, v := range ix.Variants(slug) {
			present[v] = true
		}
		for _, v := range content.AllVariants() {
			if !present[v] {
				report.MissingVariants[slug] = append(report.MissingVariants[slug], v)
			}
		}

		preamble, _ := ix.Preamble(slug, content.Index)
		for _, key := range requiredFields {
			if _, ok := preamble.Lookup(key); !ok {
				report.MissingFields[slug] = append(report.MissingFields[slug], key)
			}
		}
	}
	return report
}

func writeCheckReport(w io.Writer, r *CheckReport) {
	plain := colorDisabled()
	ui.Header(w, fmt.Sprintf("Content check: %s", r.Root), plain)
	fmt.Fprintf(w, "%d pattern(s) indexed\n\n", r.Patterns)

	if r.Clean() {
		ui.WriteSuccess(w, "Every pattern is complete", plain)
		return
	}

	for _, slug := range r.Orphans {
		ui.WriteError(w, ui.ErrorOptions{
			Level:       ui.ErrorLevelError,
			Context:     "NO INDEX DOCUMENT",
			Problem:     fmt.Sprintf("Pattern '%s' has no index document.", slug),
			Consequence: "It is left out of listings, search and the API.",
			HelpCommands: []string{
				fmt.Sprintf("Create it: patternbook new %s", slug),
			},
			NoColor: plain,
		})
	}

	if len(r.MissingFields) > 0 {
		table := ui.NewTable(w, []string{"PATTERN", "MISSING PREAMBLE KEYS"}, &ui.TableOptions{NoColor: plain})
		for _, slug := range sortedSlugs(r.MissingFields) {
			table.AddRow(slug, strings.Join(r.MissingFields[slug], ", "))
		}
		fmt.Fprintln(w)
		table.Render()
	}

	if len(r.MissingVariants) > 0 {
		table := ui.NewTable(w, []string{"PATTERN", "MISSING VARIANTS"}, &ui.TableOptions{NoColor: plain})
		for _, slug := range sortedSlugs(r.MissingVariants) {
			names := make([]string, 0, len(r.MissingVariants[slug]))
			for _, v := range r.MissingVariants[slug] {
				names = append(names, v.String())
			}
			table.AddRow(slug, strings.Join(names, ", "))
		}
		fmt.Fprintln(w)
		table.Render()
	}
}

func sortedSlugs[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
