package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"trackstrip/internal/config"
	"trackstrip/internal/language"
	"trackstrip/internal/logging"
	"trackstrip/internal/pipeline"
)

type runFlags struct {
	inputPath  string
	scriptPath string
	languages  string
	cached     bool
	verbose    bool
	workers    int
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "trackstrip",
		Short:         "Generate a script that strips unwanted audio and subtitle languages",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrip(cmd, ctx, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file path")

	f := rootCmd.Flags()
	f.StringVarP(&flags.inputPath, "input-path", "i", "", "Input path.")
	f.StringVarP(&flags.scriptPath, "script-path", "s", "process-media-files.sh", "Script output path.")
	f.StringVarP(&flags.languages, "languages", "l", "", "Keep audio and subtitles only with selected languages (ie. jap,jpn,eng) or unknown. Comma separated.")
	f.BoolVarP(&flags.cached, "cached", "c", false, "Resume from a cached file scan.")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Output extra information to console.")
	f.IntVar(&flags.workers, "workers", 1, "Number of files probed concurrently.")

	rootCmd.AddCommand(newInventoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func runStrip(cmd *cobra.Command, ctx *commandContext, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg, flags); err != nil {
		return err
	}

	opts := pipeline.Options{
		InputPath:  flags.inputPath,
		ScriptPath: cfg.Paths.Script,
		Languages:  language.NewAllowList(cfg.Selection.Languages...),
		UseCache:   flags.cached,
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.InputPath != "" {
		expanded, err := config.ExpandPath(opts.InputPath)
		if err != nil {
			return fmt.Errorf("resolve input path: %w", err)
		}
		opts.InputPath = expanded
	}

	var console io.Writer
	if flags.verbose {
		console = cmd.ErrOrStderr()
	}
	logger, closer, err := logging.NewFromConfig(cfg, console)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()

	runner := pipeline.FromConfig(cfg, logger, progressWriter(cmd))
	summary, err := runner.Run(cmd.Context(), opts)
	if err != nil {
		logger.Error("run failed", logging.Error(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d file(s), %d audio and %d subtitle stream(s) dropped\n",
		summary.ScriptPath, summary.Files, summary.AudioDrops, summary.SubtitleDrops)
	return nil
}

// applyRunFlags layers explicitly set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags runFlags) error {
	f := cmd.Flags()
	if f.Changed("script-path") {
		expanded, err := config.ExpandPath(flags.scriptPath)
		if err != nil {
			return fmt.Errorf("resolve script path: %w", err)
		}
		cfg.Paths.Script = expanded
	}
	if f.Changed("workers") {
		cfg.Probe.Workers = flags.workers
	}
	if f.Changed("languages") {
		cfg.Selection.Languages = strings.Split(flags.languages, ",")
	}
	return cfg.Validate()
}

// progressWriter returns stderr only when it is an interactive terminal.
func progressWriter(cmd *cobra.Command) io.Writer {
	w := cmd.ErrOrStderr()
	file, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd()) {
		return nil
	}
	return w
}
