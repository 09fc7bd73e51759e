package commands

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"github.com/patternbook/patternbook/internal/cli/config"
	"github.com/patternbook/patternbook/internal/cli/ui"
	"github.com/patternbook/patternbook/internal/content"
	"github.com/patternbook/patternbook/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

var (
	// Global flags shared by every subcommand
	configDir   string
	contentRoot string
	noColor     bool
	verbose     bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "patternbook",
		Short: "Browse, search and serve a catalog of design patterns",
		Long: color.CyanString(`Patternbook - a design pattern catalog

Patterns live in a content tree as <root>/<slug>/<variant>.md, where the
variant is one of index, solution, standard or optimized. Each document may
start with a "---" delimited preamble of key: value lines.

Patternbook indexes the tree and lets you list, show and search patterns from
the terminal, or serve them as a JSON API next to a prebuilt front end.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory containing patternbook.yml")
	rootCmd.PersistentFlags().StringVar(&contentRoot, "content", "", "Content root (overrides content.root)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log index construction details")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewNewCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewRoutesCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the patternbook version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Fprint(out, "Patternbook version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// colorDisabled reports whether output should be plain text
func colorDisabled() bool {
	return noColor || color.NoColor
}

// loadConfig reads patternbook.yml from the --config directory and applies
// flag overrides. Without --config, a directory that is not itself a project
// defers to the nearest ancestor holding patternbook.yml, and a relative
// content root then resolves against that ancestor.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir := configDir
	if dir == "." && !config.InProject() {
		if root, err := config.GetProjectRoot(); err == nil {
			dir = root
		}
	}

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), nil, colorDisabled()))
		return nil, err
	}
	if contentRoot != "" {
		cfg.Content.Root = contentRoot
	} else if dir != configDir && !filepath.IsAbs(cfg.Content.Root) {
		cfg.Content.Root = filepath.Join(dir, cfg.Content.Root)
	}
	return cfg, nil
}

// newLogger builds the command logger. Interactive commands only show
// warnings and errors unless --verbose is set.
func newLogger(cfg *config.Config, interactive bool) (*zap.Logger, error) {
	level := cfg.Log.Level
	if interactive && !verbose {
		parsed, err := logging.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		if parsed < zapcore.WarnLevel {
			level = zapcore.WarnLevel.String()
		}
	}
	return logging.New(logging.Config{Level: level, Format: cfg.Log.Format})
}

// loadIndex builds the content index described by cfg
func loadIndex(cfg *config.Config, logger *zap.Logger) (*content.Catalog, error) {
	tag, err := language.Parse(cfg.Content.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid content.locale %q: %w", cfg.Content.Locale, err)
	}
	return content.LoadDir(cfg.Content.Root,
		content.WithLogger(logger),
		content.WithExtensions(cfg.Content.Extensions...),
		content.WithLocale(tag),
		content.WithSearchThreshold(cfg.Search.Threshold),
	)
}

// openCatalog loads config, logger and index for the read-only commands
func openCatalog(cmd *cobra.Command) (*config.Config, *content.Catalog, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, true)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = logger.Sync() }()

	ix, err := loadIndex(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ix, nil
}
