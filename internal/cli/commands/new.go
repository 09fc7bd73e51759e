package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/patternbook/patternbook/internal/content"
)

var (
	newTitle       string
	newDescription string
	newCategory    string
	newDifficulty  string
	newVariants    []string
	newNoPrompt    bool
	newForce       bool
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+([_-][a-z0-9]+)*$`)

var difficulties = []string{"Easy", "Medium", "Hard"}

// scaffold describes the documents new writes for one pattern
type scaffold struct {
	Slug        string
	Title       string
	Description string
	Category    string
	Difficulty  string
	Variants    []content.Variant
}

// validateSlug checks that name can be used as a pattern directory
func validateSlug(name string) error {
	name = strings.TrimSpace(name)

	if len(name) == 0 || len(name) > 100 {
		return fmt.Errorf("pattern slug must be 1-100 characters")
	}

	if filepath.IsAbs(name) {
		return fmt.Errorf("pattern slug cannot be an absolute path")
	}

	if !slugPattern.MatchString(name) {
		return fmt.Errorf("pattern slug can only contain lowercase letters, numbers, and single '_' or '-' separators")
	}

	return nil
}

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [slug]",
		Short: "Scaffold a new pattern",
		Long: `Create <root>/<slug>/index.md with a preamble, and optionally the solution,
standard and optimized documents.

Without --no-prompt you are asked for every value not given as a flag.`,
		Example: `  patternbook new observer
  patternbook new chain_of_responsibility --category Behavioral --variants solution,standard
  patternbook new visitor --no-prompt --title Visitor`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNew,
	}

	cmd.Flags().StringVar(&newTitle, "title", "", "Pattern title (default: derived from the slug)")
	cmd.Flags().StringVar(&newDescription, "description", "", "One-line description")
	cmd.Flags().StringVar(&newCategory, "category", "", "Category, e.g. Creational, Structural, Behavioral")
	cmd.Flags().StringVar(&newDifficulty, "difficulty", "", "Difficulty: Easy, Medium or Hard")
	cmd.Flags().StringSliceVar(&newVariants, "variants", nil, "Extra documents to create: solution, standard, optimized")
	cmd.Flags().BoolVar(&newNoPrompt, "no-prompt", false, "Do not prompt; use flags and defaults")
	cmd.Flags().BoolVarP(&newForce, "force", "f", false, "Overwrite existing documents")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s := &scaffold{
		Title:       newTitle,
		Description: newDescription,
		Category:    newCategory,
		Difficulty:  newDifficulty,
	}
	if len(args) > 0 {
		s.Slug = strings.TrimSpace(args[0])
	}
	for _, name := range newVariants {
		v, err := content.ParseVariant(name)
		if err != nil {
			return err
		}
		if v != content.Index {
			s.Variants = append(s.Variants, v)
		}
	}

	if !newNoPrompt {
		if err := promptScaffold(s, cmd.Flags().Changed("variants")); err != nil {
			return err
		}
	}
	if s.Slug == "" {
		return errors.New("a pattern slug is required")
	}
	if err := validateSlug(s.Slug); err != nil {
		return err
	}
	if s.Title == "" {
		s.Title = content.FormatSlug(s.Slug)
	}

	written, err := writeScaffold(cfg.Content.Root, s, newForce)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	successColor.Fprintf(out, "✓ Created pattern %s\n", s.Slug)
	for _, path := range written {
		infoColor.Fprintf(out, "  %s\n", path)
	}
	fmt.Fprintf(out, "\nPreview it with: patternbook show %s\n", s.Slug)
	return nil
}

// promptScaffold asks for every value that was not given on the command line
func promptScaffold(s *scaffold, variantsGiven bool) error {
	if s.Slug == "" {
		prompt := &survey.Input{Message: "Pattern slug (directory name):"}
		validate := survey.ComposeValidators(survey.Required, func(ans interface{}) error {
			return validateSlug(fmt.Sprint(ans))
		})
		if err := survey.AskOne(prompt, &s.Slug, survey.WithValidator(validate)); err != nil {
			return err
		}
	}

	var questions []*survey.Question
	if s.Title == "" {
		questions = append(questions, &survey.Question{
			Name:   "title",
			Prompt: &survey.Input{Message: "Title:", Default: content.FormatSlug(s.Slug)},
		})
	}
	if s.Description == "" {
		questions = append(questions, &survey.Question{
			Name:   "description",
			Prompt: &survey.Input{Message: "One-line description:"},
		})
	}
	if s.Category == "" {
		questions = append(questions, &survey.Question{
			Name:   "category",
			Prompt: &survey.Input{Message: "Category:", Default: content.DefaultCategory},
		})
	}
	if s.Difficulty == "" {
		questions = append(questions, &survey.Question{
			Name:   "difficulty",
			Prompt: &survey.Select{Message: "Difficulty:", Options: difficulties, Default: content.DefaultDifficulty},
		})
	}

	answers := struct {
		Title       string
		Description string
		Category    string
		Difficulty  string
	}{s.Title, s.Description, s.Category, s.Difficulty}
	if len(questions) > 0 {
		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}
	}
	s.Title, s.Description, s.Category, s.Difficulty = answers.Title, answers.Description, answers.Category, answers.Difficulty

	if !variantsGiven {
		var picked []string
		prompt := &survey.MultiSelect{
			Message: "Also create:",
			Options: []string{content.Solution.String(), content.Standard.String(), content.Optimized.String()},
		}
		if err := survey.AskOne(prompt, &picked); err != nil {
			return err
		}
		for _, name := range picked {
			v, err := content.ParseVariant(name)
			if err != nil {
				return err
			}
			s.Variants = append(s.Variants, v)
		}
	}
	return nil
}

// writeScaffold creates the pattern directory and its documents under root.
// Existing documents are only replaced when force is set.
func writeScaffold(root string, s *scaffold, force bool) ([]string, error) {
	dir := filepath.Join(root, s.Slug)

	files := map[content.Variant]string{content.Index: indexDocument(s)}
	order := []content.Variant{content.Index}
	for _, v := range s.Variants {
		if _, dup := files[v]; dup {
			continue
		}
		files[v] = variantDocument(v)
		order = append(order, v)
	}

	paths := make([]string, 0, len(order))
	for _, v := range order {
		path := filepath.Join(dir, v.String()+".md")
		if _, err := os.Stat(path); err == nil && !force {
			return nil, fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		paths = append(paths, path)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for i, v := range order {
		if err := os.WriteFile(paths[i], []byte(files[v]), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", paths[i], err)
		}
	}
	return paths, nil
}

func indexDocument(s *scaffold) string {
	fields := map[string]string{content.KeyTitle: s.Title}
	if s.Description != "" {
		fields[content.KeyDescription] = s.Description
	}
	if s.Category != "" {
		fields[content.KeyCategory] = s.Category
	}
	if s.Difficulty != "" {
		fields[content.KeyDifficulty] = s.Difficulty
	}
	return content.Preamble{
		Fields: fields,
		Body:   "# Problem\n\nDescribe the problem this pattern solves and when it applies.",
	}.Format()
}

func variantDocument(v content.Variant) string {
	heading := strings.TrimPrefix(v.TitleSuffix(), " - ")
	return fmt.Sprintf("# %s\n\nWrite the %s document here.\n", heading, v)
}
