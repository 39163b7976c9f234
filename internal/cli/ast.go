package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/convert"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/reporter"
	"github.com/yaklabco/mdtree/pkg/token"
)

type astFlags struct {
	tokens string
	format string
}

func newASTCommand(global *globalFlags) *cobra.Command {
	flags := &astFlags{}

	cmd := &cobra.Command{
		Use:   "ast --tokens <file.json>",
		Short: "Build a syntax tree from a token stream",
		Long: `Build a syntax tree from a JSON token document produced by
"mdtree tokens" or another tokenizer using the same token format.

The document is checked against the token schema first (see
"mdtree tokens --schema"). Use "-" to read it from standard input.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAST(cmd, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.tokens, "tokens", "", "token document to read (- for stdin)")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: json, yaml, tree (default from config)")
	_ = cmd.MarkFlagRequired("tokens")

	return cmd
}

func runAST(cmd *cobra.Command, global *globalFlags, flags *astFlags) error {
	ctx := commandContext(cmd)

	var cliCfg *config.Config
	if flags.format != "" {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cliCfg = &config.Config{Output: config.OutputConfig{Format: config.OutputFormat(format)}}
	}

	workDir, err := global.workDir()
	if err != nil {
		return err
	}
	cfg, err := global.loadConfig(ctx, workDir, cliCfg)
	if err != nil {
		return err
	}

	var content []byte
	if flags.tokens == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("%w: read stdin: %w", ErrIO, err)
		}
	} else {
		content, _, err = fsutil.ReadFile(ctx, resolvePath(workDir, flags.tokens))
		if err != nil {
			return err
		}
	}

	doc, err := token.DecodeDocument(content)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	root, err := convert.FromConfig(cfg).Build(ctx, doc)
	if err != nil {
		return err
	}

	repOpts := reporter.OptionsFromConfig(cfg)
	out, err := reporter.Marshal(repOpts.Format, reporter.FileDocument{Path: flags.tokens, AST: root}, repOpts.Indent)
	if err != nil {
		return fmt.Errorf("render tree: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// resolvePath joins relative paths onto workDir.
func resolvePath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
