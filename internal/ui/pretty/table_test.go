package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/convert"
	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/runner"
)

func sampleResult() *runner.Result {
	root := mdast.NewDocument(
		mdast.NewNode(mdast.ElemParagraph, mdast.Text("hi")),
	)
	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "a.md", Result: &convert.Result{Path: "a.md", Root: root}},
			{Path: "b.md", Error: errors.New("boom")},
			{Path: "c.md", Error: convert.ErrSourceChanged, Skipped: true},
		},
		Stats: runner.Stats{
			NodesByElem: map[string]int{"markdown": 1, "paragraph": 3, "em": 3, "strong": 1},
		},
	}
}

func TestFileRows(t *testing.T) {
	rows := pretty.FileRows(sampleResult())

	assert.Equal(t, []pretty.FileRow{
		{File: "a.md", Nodes: 2, Status: "ok"},
		{File: "b.md", Status: "failed"},
		{File: "c.md", Status: "skipped"},
	}, rows)
}

func TestElemRows(t *testing.T) {
	rows := pretty.ElemRows(sampleResult().Stats)

	assert.Equal(t, []pretty.ElemRow{
		{Elem: "em", Count: 3},
		{Elem: "paragraph", Count: 3},
		{Elem: "markdown", Count: 1},
		{Elem: "strong", Count: 1},
	}, rows)
}

func TestFormatFileTable(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	assert.Empty(t, formatter.FormatFileTable(nil))

	out := formatter.FormatFileTable(sampleResult())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "NODES")
	assert.True(t, strings.HasPrefix(lines[1], "==="))
	assert.Contains(t, lines[2], "a.md")
	assert.Contains(t, lines[2], "2  ok")
	assert.Contains(t, lines[3], "failed")
	assert.Contains(t, lines[4], "skipped")
}

func TestFormatElemTable(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	assert.Empty(t, formatter.FormatElemTable(runner.Stats{}))

	out := formatter.FormatElemTable(sampleResult().Stats)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "ELEM")
	assert.Equal(t, " em               3", lines[2])
}

func TestFormatFileTable_TruncatesLongPaths(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 40)

	long := strings.Repeat("d/", 30) + "file.md"
	out := formatter.FormatFileTable(&runner.Result{
		Files: []runner.FileOutcome{{Path: long, Error: errors.New("x")}},
	})

	assert.Contains(t, out, "...")
	assert.Contains(t, out, "file.md")
}
