package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/convert"
	"github.com/yaklabco/mdtree/pkg/reporter"
	"github.com/yaklabco/mdtree/pkg/runner"
)

type parseFlags struct {
	format         string
	flavor         string
	gfm            bool
	noMangle       bool
	noFrontMatter  bool
	noSummary      bool
	stats          bool
	width          int
	followSymlinks bool
	watch          bool
	debounce       time.Duration
}

func newParseCommand(global *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Convert Markdown files to syntax trees",
		Long:  parseLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, global, &cfg, flags)
		},
	}

	addParseFlags(cmd, &cfg, flags)

	return cmd
}

const parseLongDescription = `Convert Markdown files to syntax trees.

By default, converts all Markdown files in the current directory and
subdirectories. Specify paths to convert specific files or directories.

Examples:
  mdtree parse README.md               # Print the tree of one file as JSON
  mdtree parse docs/ --format tree     # Outline every file under docs/
  mdtree parse --format yaml --out-dir build/ast
  mdtree parse --gfm=false --pedantic  # Original Markdown grammar
  mdtree parse docs/ --out-dir build --watch
                                       # Rebuild changed files until interrupted`

func runParse(cmd *cobra.Command, args []string, global *globalFlags, cfg *config.Config, flags *parseFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	if err := cliOverrides(cmd, cfg, flags); err != nil {
		return err
	}

	workDir, err := global.workDir()
	if err != nil {
		return err
	}

	finalCfg, err := global.loadConfig(ctx, workDir, cfg)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldFlavor, finalCfg.Flavor,
		logging.FieldFormat, finalCfg.Output.Format,
		logging.FieldMaxDepth, finalCfg.Parse.MaxDepth,
		logging.FieldJobs, finalCfg.Jobs,
	)

	run := runner.New(convert.FromConfig(finalCfg))
	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		ExcludeGlobs:   finalCfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           finalCfg.Jobs,
	}

	result, err := run.Run(ctx, runOpts)
	if err != nil {
		return runError(err)
	}

	repOpts := reporter.OptionsFromConfig(finalCfg)
	repOpts.Writer = cmd.OutOrStdout()
	repOpts.ErrorWriter = cmd.ErrOrStderr()
	repOpts.Color = global.color
	repOpts.WorkingDir = workDir
	if repOpts.OutDir != "" && !filepath.IsAbs(repOpts.OutDir) {
		repOpts.OutDir = filepath.Join(workDir, repOpts.OutDir)
	}
	repOpts.ShowSummary = !flags.noSummary
	repOpts.ShowStats = flags.stats
	repOpts.Width = flags.width

	rep, err := reporter.New(repOpts)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return errors.Join(ErrIO, err)
	}

	if flags.watch {
		return watchParse(ctx, cmd, run, rep, runOpts, flags.debounce)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrConversionFailed
	}
	return nil
}

// watchParse reconverts and reports changed files until the command
// context is cancelled. Conversion failures do not end the watch.
func watchParse(
	ctx context.Context,
	cmd *cobra.Command,
	run *runner.Runner,
	rep reporter.Reporter,
	opts runner.Options,
	debounce time.Duration,
) error {
	logger := logging.FromContext(ctx)

	watcher, err := runner.NewWatcher(ctx, opts, debounce)
	if err != nil {
		return runError(err)
	}
	defer func() { _ = watcher.Close() }()

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes (interrupt to stop)")

	return watcher.Run(ctx, func(ctx context.Context, paths []string) error {
		batch := opts
		batch.Paths = paths

		result, err := run.Run(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("reconvert failed", logging.FieldPaths, paths, logging.FieldError, err)
			return nil
		}

		if _, err := rep.Report(ctx, result); err != nil {
			return errors.Join(ErrIO, err)
		}
		return nil
	})
}

func runError(err error) error {
	if errors.Is(err, runner.ErrInvalidPattern) {
		return errors.Join(ErrConfig, err)
	}
	return errors.Join(ErrIO, err)
}

// cliOverrides maps flags that need translation onto cfg. Only flags the
// user actually set are applied, so lower config layers still show through.
func cliOverrides(cmd *cobra.Command, cfg *config.Config, flags *parseFlags) error {
	changed := cmd.Flags().Changed

	if changed("format") {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Output.Format = config.OutputFormat(format)
	}

	if changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if changed("gfm") {
		if changed("flavor") {
			return fmt.Errorf("%w: --gfm and --flavor are mutually exclusive", ErrUsage)
		}
		cfg.Flavor = config.FlavorCommonMark
		if flags.gfm {
			cfg.Flavor = config.FlavorGFM
		}
	}

	if changed("no-mangle") {
		cfg.Parse.Mangle = config.Bool(!flags.noMangle)
	}
	if changed("no-front-matter") {
		cfg.Tokenizer.FrontMatter = config.Bool(!flags.noFrontMatter)
	}
	if changed("max-depth") && cfg.Parse.MaxDepth <= 0 {
		return fmt.Errorf("%w: --max-depth must be positive", ErrUsage)
	}
	if changed("debounce") && !flags.watch {
		return fmt.Errorf("%w: --debounce requires --watch", ErrUsage)
	}

	return nil
}

func addParseFlags(cmd *cobra.Command, cfg *config.Config, flags *parseFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "json", "output format: json, yaml, tree")
	cmd.Flags().StringVar(&cfg.OutDir, "out-dir", "", "write one output file per document into this directory")
	cmd.Flags().IntVar(&cfg.Output.Indent, "indent", 0, "indentation width (default from config, 2)")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&cfg.Ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")

	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.gfm, "gfm", true, "enable GitHub Flavored Markdown (same as --flavor gfm)")
	cmd.Flags().BoolVar(&cfg.Parse.Pedantic, "pedantic", false, "use the original Markdown emphasis grammar")
	cmd.Flags().BoolVar(&cfg.Parse.Smartypants, "smartypants", false, "convert quotes, dashes and ellipses")
	cmd.Flags().BoolVar(&cfg.Parse.Breaks, "breaks", false, "treat single newlines as hard breaks")
	cmd.Flags().BoolVar(&flags.noMangle, "no-mangle", false, "keep autolinked email addresses readable")
	cmd.Flags().IntVar(&cfg.Parse.MaxDepth, "max-depth", 0, "maximum nesting depth (default from config, 128)")
	cmd.Flags().BoolVar(&flags.noFrontMatter, "no-front-matter", false, "treat front matter as Markdown")
	cmd.Flags().BoolVar(&cfg.Tokenizer.DetectLanguage, "detect-language", false,
		"guess the language of code blocks without an info string")

	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "do not print the run summary")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print per-file and per-element node counts")
	cmd.Flags().IntVar(&flags.width, "width", 0, "truncate text in tree output (0 = terminal, -1 = never)")

	cmd.Flags().BoolVar(&flags.watch, "watch", false, "keep running and reconvert files as they change")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", runner.DefaultDebounce, "wait this long for more changes before reconverting")
}
