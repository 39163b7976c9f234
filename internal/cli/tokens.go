package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/pkg/convert"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	goldmarkparser "github.com/yaklabco/mdtree/pkg/parser/goldmark"
	"github.com/yaklabco/mdtree/pkg/token"
)

func newTokensCommand(global *globalFlags) *cobra.Command {
	var compact, schema bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the block token stream of a Markdown file",
		Long: `Print the block token stream and link table of a Markdown file as JSON.

The output can be edited and fed back with "mdtree ast --tokens".
Use --schema to print the JSON schema token documents must follow.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if schema {
				return exactArgs(0)(cmd, args)
			}
			return exactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if schema {
				if _, err := io.WriteString(cmd.OutOrStdout(), token.Schema()); err != nil {
					return fmt.Errorf("%w: %w", ErrIO, err)
				}
				return nil
			}

			ctx := commandContext(cmd)

			workDir, err := global.workDir()
			if err != nil {
				return err
			}
			cfg, err := global.loadConfig(ctx, workDir, nil)
			if err != nil {
				return err
			}

			content, _, err := fsutil.ReadFile(ctx, resolvePath(workDir, args[0]))
			if err != nil {
				return err
			}

			opts := convert.OptionsFromConfig(cfg)
			result, err := goldmarkparser.New(opts.Tokenizer).Tokenize(ctx, content)
			if err != nil {
				return fmt.Errorf("%w: %w", convert.ErrTokenize, err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("%w: encode tokens: %w", ErrIO, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	cmd.Flags().BoolVar(&schema, "schema", false, "print the token document JSON schema instead")

	return cmd
}
