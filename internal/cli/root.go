// Package cli provides the Cobra command structure for mdtree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	debug      bool
	logLevel   string
	configPath string
	color      string
	directory  string
}

// NewRootCommand creates the root mdtree command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mdtree",
		Short: "Convert Markdown into a structured syntax tree",
		Long: `mdtree parses Markdown documents into a nested syntax tree.

Block structure comes from a CommonMark or GitHub Flavored Markdown
tokenizer; inline spans are resolved by a rule-based lexer. Trees can be
printed as JSON, YAML or an indented outline, or written one file per
document into an output directory.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := global.logLevel
			if global.debug {
				level = "debug"
			}
			logging.SetLevel(level)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "warn",
		"log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&global.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVarP(&global.directory, "directory", "C", "",
		"run as if started in this directory")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newParseCommand(global))
	rootCmd.AddCommand(newTokensCommand(global))
	rootCmd.AddCommand(newASTCommand(global))
	rootCmd.AddCommand(newInitCommand(global))
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(global.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// workDir resolves the directory commands operate in.
func (g *globalFlags) workDir() (string, error) {
	if g.directory != "" {
		abs, err := filepath.Abs(g.directory)
		if err != nil {
			return "", fmt.Errorf("%w: resolve directory: %w", ErrIO, err)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: get working directory: %w", ErrIO, err)
	}
	return wd, nil
}

// loadConfig loads the layered configuration with cliCfg applied last.
func (g *globalFlags) loadConfig(ctx context.Context, workDir string, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: g.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, loadResult.LoadedFrom)
	}

	return loadResult.Config, nil
}

// commandContext returns the command context with the default logger attached.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// exactArgs is cobra.ExactArgs with usage errors marked for the exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}
