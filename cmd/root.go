package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/atable/internal/config"
	"github.com/oakwood-commons/atable/internal/limiter"
	"github.com/oakwood-commons/atable/pkg/logger"
	"github.com/oakwood-commons/atable/pkg/settings"
)

// rootOptions holds the flag values of one command tree.
type rootOptions struct {
	configFile      string
	debug           bool
	delimiter       string
	inputFormat     string
	widthMode       string
	unknownWidth    int
	header          bool
	headerSeparator string
	window          int
	screenWindow    bool
	limit           limiter.Config
}

const longHelp = `atable prints rows as aligned columns while they stream in.

Each row widens the running maximum width of its columns and is padded to the
widths seen so far, so a column is only as wide as the widest value printed up
to and including the current row. Wide East Asian characters count as two
cells.

With --window N the widths are replaced every N rows by the widths seen during
the last N rows, so one very wide row does not stretch the layout forever.

Defaults can be set in $XDG_CONFIG_HOME/atable/config.yaml (or .toml);
explicitly passed flags win over the config file.`

// NewRootCmd builds the atable command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file...]",
		Short: "Print streaming rows as adaptively aligned columns",
		Long:  longHelp,
		Example: "  ps -eo pid,user,comm | atable -F fields --header\n" +
			"  atable -F csv --header people.csv\n" +
			"  tail -f events.jsonl | atable -F jsonl --header --window 50",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       settings.VersionInformation.BuildVersion,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// debug => zap.DebugLevel (-1), else zap.InfoLevel (0)
			var level int8
			if opts.debug {
				level = -1
			}
			lgr := logger.Get(level)
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

			run := settings.NewCliParams()
			run.MinLogLevel = level
			run.Debug = opts.debug
			run.ConfigPath = config.ResolvePath(opts.configFile)
			if len(args) > 0 {
				run.Inputs = args
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logger.WithLogger(ctx, lgr)
			cmd.SetContext(settings.IntoContext(ctx, run))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTable(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config-file", "", "path to a YAML or TOML config file")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write debug logs to stderr")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.delimiter, "delimiter", "d", defaults.Delimiter, "string placed between output columns")
	flags.StringVarP(&opts.inputFormat, "input-format", "F", defaults.InputFormat, "input format: tsv|csv|jsonl|yaml|fields")
	flags.StringVar(&opts.widthMode, "width-mode", defaults.WidthMode, "width measurement: visual (East Asian width), chars (rune count) or terminal (go-runewidth)")
	flags.IntVar(&opts.unknownWidth, "unknown-width", defaults.UnknownWidth, "cells counted for characters without a width category (-1 = fail)")
	flags.BoolVar(&opts.header, "header", defaults.Header, "treat the first row (or JSONL object keys) as a header")
	flags.StringVar(&opts.headerSeparator, "header-separator", defaults.HeaderSeparator, "string repeated under each header column")
	flags.IntVarP(&opts.window, "window", "w", defaults.Window, "reset column widths to the last N rows every N rows (0 = never)")
	flags.BoolVar(&opts.screenWindow, "screen-window", defaults.ScreenWindow, "use the terminal height as --window")
	flags.IntVar(&opts.limit.Limit, "limit", 0, "print at most N data rows")
	flags.IntVar(&opts.limit.Offset, "offset", 0, "skip the first N data rows")
	flags.IntVar(&opts.limit.Tail, "tail", 0, "print only the last N data rows (mutually exclusive with --limit; ignores --offset)")

	rootCmd.AddCommand(newVersionCmd(), newConfigCmd(opts))
	return rootCmd
}

// Execute runs the atable command tree.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig merges defaults, the config file and explicitly set flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	path := config.ResolvePath(opts.configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	logger.FromContext(cmd.Context()).V(1).Info("config resolved", "path", path)

	applyFlagOverrides(cmd.Flags(), opts, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides copies explicitly set table flags into cfg. Commands
// without the table flags leave cfg untouched.
func applyFlagOverrides(flags *pflag.FlagSet, opts *rootOptions, cfg *config.Config) {
	overrides := map[string]func(){
		"delimiter":        func() { cfg.Delimiter = opts.delimiter },
		"input-format":     func() { cfg.InputFormat = opts.inputFormat },
		"width-mode":       func() { cfg.WidthMode = opts.widthMode },
		"unknown-width":    func() { cfg.UnknownWidth = opts.unknownWidth },
		"header":           func() { cfg.Header = opts.header },
		"header-separator": func() { cfg.HeaderSeparator = opts.headerSeparator },
		"window":           func() { cfg.Window = opts.window },
		"screen-window":    func() { cfg.ScreenWindow = opts.screenWindow },
	}
	flags.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})
}
