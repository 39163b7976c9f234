package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// minTextWidth keeps truncated text readable on narrow terminals.
const minTextWidth = 20

// TreeReporter writes each tree as an indented, optionally colored outline.
type TreeReporter struct {
	opts   Options
	styles *pretty.Styles
	dumper *mdast.Dumper
	bw     *bufio.Writer
}

// NewTreeReporter creates a new tree reporter.
func NewTreeReporter(opts Options) *TreeReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))

	width := opts.Width
	switch {
	case width == 0:
		width = max(pretty.TermWidth(opts.Writer)/2, minTextWidth)
	case width < 0:
		width = 0
	}

	elem, optsHook, text := styles.DumpHooks()
	return &TreeReporter{
		opts:   opts,
		styles: styles,
		dumper: &mdast.Dumper{
			Indent:       strings.Repeat(" ", max(opts.Indent, 1)),
			MaxTextWidth: width,
			StyleElem:    elem,
			StyleOpts:    optsHook,
			StyleText:    text,
		},
		bw: bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TreeReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		}
		return 0, nil
	}

	docs := buildDocument(result, r.opts.WorkingDir).Files
	if r.opts.OutDir != "" {
		if err := writeOutDir(ctx, r.opts, result, docs); err != nil {
			return 0, err
		}
	}

	multi := len(result.Files) > 1
	for i, file := range result.Files {
		doc := docs[i]

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFailure(doc.Path, file.Error))
			continue
		}
		if file.Result == nil {
			continue
		}

		if doc.Output != "" {
			fmt.Fprintf(r.bw, "%s %s %s\n",
				r.styles.FilePath.Render(doc.Path),
				r.styles.Dim.Render("->"),
				doc.Output,
			)
			continue
		}

		if multi {
			fmt.Fprintln(r.bw, r.styles.FilePath.Render(doc.Path))
		}
		if err := r.dumper.Dump(r.bw, file.Result.Root); err != nil {
			return 0, fmt.Errorf("dump %s: %w", doc.Path, err)
		}
		if multi {
			fmt.Fprintln(r.bw)
		}
	}

	if r.opts.ShowStats {
		tables := pretty.NewTableFormatter(r.styles, pretty.TermWidth(r.opts.Writer))
		fmt.Fprint(r.bw, tables.FormatFileTable(result))
		fmt.Fprint(r.bw, tables.FormatElemTable(result.Stats))
	}
	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return result.Stats.FilesFailed, nil
}
