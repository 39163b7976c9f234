package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// StructuredReporter writes results as a JSON or YAML RunDocument.
type StructuredReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewStructuredReporter creates a reporter for FormatJSON or FormatYAML.
func NewStructuredReporter(opts Options) *StructuredReporter {
	return &StructuredReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.ErrorWriter)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. With an output directory, ASTs go to
// per-file documents and the run document only lists output paths.
func (r *StructuredReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	doc := buildDocument(result, r.opts.WorkingDir)

	if r.opts.OutDir != "" && result != nil {
		if err := writeOutDir(ctx, r.opts, result, doc.Files); err != nil {
			return 0, err
		}
		for i := range doc.Files {
			if doc.Files[i].Output != "" {
				doc.Files[i].AST = nil
				doc.Files[i].FrontMatter = nil
			}
		}
	}

	if err := encode(r.bw, r.opts.Format, doc, r.opts.Indent); err != nil {
		return 0, err
	}

	if r.opts.ShowStats && result != nil {
		tables := pretty.NewTableFormatter(r.styles, pretty.TermWidth(r.opts.ErrorWriter))
		fmt.Fprint(r.opts.ErrorWriter, tables.FormatFileTable(result))
		fmt.Fprint(r.opts.ErrorWriter, tables.FormatElemTable(result.Stats))
	}
	if r.opts.ShowSummary && result != nil {
		fmt.Fprint(r.opts.ErrorWriter, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return doc.Summary.FilesFailed, nil
}
