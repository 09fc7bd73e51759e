package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"

	"github.com/patternbook/patternbook/internal/cli/ui"
	"github.com/patternbook/patternbook/internal/content"
)

var (
	showRender bool
	showRaw    bool
	showWidth  int
	showOutput string
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <slug> [variant]",
		Short: "Show one variant of a pattern",
		Long: `Show a pattern document. The variant defaults to index and may be one of
index, solution, standard or optimized.

When the pattern has no document for the requested variant, the index
document is shown in its place.`,
		Example: `  patternbook show observer
  patternbook show observer solution --render
  patternbook show factory_method standard --raw`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runShow,
	}

	cmd.Flags().BoolVar(&showRender, "render", false, "Render the document as styled markdown")
	cmd.Flags().BoolVar(&showRaw, "raw", false, "Print only the document body")
	cmd.Flags().IntVar(&showWidth, "width", 80, "Word wrap width for --render")
	cmd.Flags().StringVarP(&showOutput, "output", "o", "text", "Output format: text, json or yaml")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := checkFormat(showOutput, "text", formatJSON, formatYAML); err != nil {
		return err
	}

	slug := args[0]
	variantName := ""
	if len(args) > 1 {
		variantName = args[1]
	}

	v, err := content.ParseVariant(variantName)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.UnknownVariantError(variantName,
			ui.FindSimilar(variantName, variantNames(), nil), colorDisabled()))
		return err
	}

	_, ix, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	pattern, ok := ix.Get(slug, v)
	if !ok {
		fmt.Fprint(cmd.ErrOrStderr(), ui.PatternNotFoundError(slug,
			ui.FindSimilar(slug, ix.Slugs(), nil), colorDisabled()))
		return fmt.Errorf("pattern %q not found", slug)
	}

	out := cmd.OutOrStdout()
	if showOutput != "text" {
		return writeStructured(out, showOutput, pattern)
	}

	body := pattern.Content
	if showRender {
		body, err = renderMarkdown(body, showWidth)
		if err != nil {
			return err
		}
	}

	if showRaw {
		fmt.Fprintln(out, strings.TrimRight(body, "\n"))
		return nil
	}

	writePatternHeader(out, pattern, ix.Variants(slug))
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.TrimRight(body, "\n"))
	return nil
}

func writePatternHeader(w io.Writer, p *content.Pattern, available []content.Variant) {
	ui.Header(w, p.Title, colorDisabled())

	kv := ui.NewKeyValueTable(w, colorDisabled())
	kv.AddRow("Slug", p.Slug)
	kv.AddRow("Category", p.Category)
	kv.AddRow("Difficulty", p.Difficulty)
	kv.AddRow("Description", p.Description)
	if p.IsFallback() {
		kv.AddRow("Variant", fmt.Sprintf("%s (not written yet, showing %s)", p.Variant, p.Resolved))
	} else {
		kv.AddRow("Variant", p.Variant.String())
	}

	names := make([]string, 0, len(available))
	for _, v := range available {
		names = append(names, v.String())
	}
	kv.AddRow("Available", strings.Join(names, ", "))
	kv.Render()
}

// renderMarkdown styles body for the terminal. Plain output uses the
// no-TTY style so it never emits escape codes.
func renderMarkdown(body string, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if colorDisabled() {
		style = glamour.WithStandardStyle(styles.NoTTYStyle)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(body)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func variantNames() []string {
	all := content.AllVariants()
	names := make([]string, len(all))
	for i, v := range all {
		names[i] = v.String()
	}
	return names
}
