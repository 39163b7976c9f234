package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// writeOutDir writes one document per converted file under opts.OutDir
// and records each output path on the matching entry of docs.
func writeOutDir(ctx context.Context, opts Options, result *runner.Result, docs []FileDocument) error {
	logger := logging.FromContext(ctx)

	for i, file := range result.Files {
		if file.Result == nil {
			continue
		}

		outPath := fsutil.OutputPath(opts.OutDir, opts.WorkingDir, file.Path, opts.Format.Ext())

		doc := docs[i]
		doc.Output = ""
		content, err := Marshal(opts.Format, doc, opts.Indent)
		if err != nil {
			return fmt.Errorf("render %s: %w", doc.Path, err)
		}

		written, err := fsutil.WriteAtomicIfChanged(ctx, outPath, content, fsutil.DefaultFileMode)
		if err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}

		logger.Debug("wrote output",
			logging.FieldPath, file.Path,
			logging.FieldOutput, outPath,
			logging.FieldChanged, written,
		)

		docs[i].Output = outPath
	}
	return nil
}
