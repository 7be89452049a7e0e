package root

import (
	"github.com/spf13/cobra"

	"github.com/flarebyte/manna/cmd/manna/version"
	"github.com/flarebyte/manna/internal/app"
	"github.com/flarebyte/manna/internal/config"
	"github.com/flarebyte/manna/internal/display"
	"github.com/flarebyte/manna/internal/logging"
)

// options are the flags shared by every manna command.
type options struct {
	configPath string
	plain      bool
	verbose    bool

	theme    string
	newVerse bool
	list     bool
}

// NewRootCmd creates the root command for manna.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "manna",
		Short: "Show today's Bible verse with a commentary link",
		Long: `manna prints a verse of the day. The first run of a day fetches a verse,
random or from a theme, and caches it; later runs that day reuse the cache.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return runThemes(cmd, opts)
			}
			return runVerse(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (.cue); defaults to $"+config.EnvConfigPath)
	pf.BoolVar(&opts.plain, "plain", false, "Print plain text instead of rendered Markdown")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	f := cmd.Flags()
	f.StringVarP(&opts.theme, "theme", "t", "", "Pick the verse from a theme (see --list)")
	f.BoolVarP(&opts.newVerse, "new", "n", false, "Ignore today's cached verse and fetch a new one")
	f.BoolVarP(&opts.list, "list", "l", false, "List available themes and exit")

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(newThemesCmd(opts))

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// setup resolves config and logger and wires the app to the command's stdout.
// The returned cleanup flushes the logger.
func setup(cmd *cobra.Command, opts *options) (*app.App, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, setupError(err)
	}
	logger, err := logging.New(cfg.LogLevel, opts.verbose)
	if err != nil {
		return nil, nil, setupError(err)
	}
	cleanup := func() { _ = logger.Sync() }
	a, err := app.New(cfg, logger, cmd.OutOrStdout(), app.Options{Plain: opts.plain})
	if err != nil {
		cleanup()
		return nil, nil, setupError(err)
	}
	return a, cleanup, nil
}

func runVerse(cmd *cobra.Command, opts *options) error {
	a, cleanup, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer cleanup()
	_, err = a.Verse(cmd.Context(), display.Options{Theme: opts.theme, ForceNew: opts.newVerse})
	return evaluateRunExit(err)
}

func runThemes(cmd *cobra.Command, opts *options) error {
	a, cleanup, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer cleanup()
	return evaluateRunExit(a.ListThemes())
}

func newThemesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:           "themes",
		Short:         "List available themes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemes(cmd, opts)
		},
	}
}
