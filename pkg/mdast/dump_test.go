package mdast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

func TestDump(t *testing.T) {
	t.Parallel()

	b := mdast.TreeBuilder{}
	doc := mdast.NewDocument(
		b.Heading([]mdast.Item{b.Text("Hi")}, 1, "Hi"),
		b.List([]mdast.Item{b.ListItem([]mdast.Item{b.Text("a")})}, true),
		b.Table(
			b.TableRow([]mdast.Item{b.TableCell([]mdast.Item{b.Text("h")}, mdast.CellFlags{Header: true, Align: mdast.AlignCenter})}),
			[]mdast.Item{b.TableRow([]mdast.Item{b.TableCell([]mdast.Item{b.Text("c")}, mdast.CellFlags{})})},
		),
		b.HR(),
	)

	want := strings.Join([]string{
		`markdown`,
		`  heading {level=1 raw="Hi"}`,
		`    "Hi"`,
		`  list {ordered}`,
		`    listitem`,
		`      "a"`,
		`  table`,
		`    (header)`,
		`      tablerow`,
		`        tablecell {header=true align=center}`,
		`          "h"`,
		`    []`,
		`      tablerow`,
		`        tablecell {header=false}`,
		`          "c"`,
		`  hr`,
	}, "\n") + "\n"

	assert.Equal(t, want, mdast.Dump(doc))
}

func TestDumper_Options(t *testing.T) {
	t.Parallel()

	b := mdast.TreeBuilder{}
	doc := mdast.NewDocument(b.Paragraph([]mdast.Item{b.Text("abcdef"), b.Link("/u", "T", nil)}))

	d := &mdast.Dumper{
		Indent:       "\t",
		MaxTextWidth: 3,
		StyleElem:    func(s string) string { return "<" + s + ">" },
		StyleOpts:    func(s string) string { return "[" + s + "]" },
		StyleText:    strings.ToUpper,
	}

	var sb strings.Builder
	require.NoError(t, d.Dump(&sb, doc))

	assert.Equal(t, "<markdown>\n\t<paragraph>\n\t\t\"ABC\"…\n\t\t<link> [{href=\"/u\" title=\"T\"}]\n", sb.String())
}

func TestDump_Nil(t *testing.T) {
	t.Parallel()

	assert.Empty(t, mdast.Dump(nil))
}
