package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

func TestElem_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		elem mdast.Elem
		want string
	}{
		{mdast.ElemMarkdown, "markdown"},
		{mdast.ElemTableRow, "tablerow"},
		{mdast.ElemTableCell, "tablecell"},
		{mdast.ElemListItem, "listitem"},
		{mdast.ElemCodespan, "codespan"},
		{mdast.ElemImage, "image"},
		{mdast.Elem(200), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.elem.String())
		})
	}
}

func TestParseElem(t *testing.T) {
	t.Parallel()

	for e := mdast.ElemMarkdown; e <= mdast.ElemImage; e++ {
		got, ok := mdast.ParseElem(e.String())
		assert.True(t, ok, e.String())
		assert.Equal(t, e, got)
	}

	_, ok := mdast.ParseElem("document")
	assert.False(t, ok)
}

func TestElem_Level(t *testing.T) {
	t.Parallel()

	blocks := []mdast.Elem{mdast.ElemMarkdown, mdast.ElemHeading, mdast.ElemTable, mdast.ElemHTML, mdast.ElemParagraph}
	inlines := []mdast.Elem{mdast.ElemStrong, mdast.ElemEm, mdast.ElemBR, mdast.ElemLink, mdast.ElemImage}

	for _, e := range blocks {
		assert.True(t, e.IsBlock(), e.String())
		assert.False(t, e.IsInline(), e.String())
	}
	for _, e := range inlines {
		assert.True(t, e.IsInline(), e.String())
		assert.False(t, e.IsBlock(), e.String())
	}
	assert.False(t, mdast.Elem(200).IsInline())
}

func TestNode_Children(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()
	children := doc.Children()
	assert.Len(t, children, 3)

	table := children[1]
	rows := table.Children()
	assert.Len(t, rows, 1, "groups are flattened; the header row lives in opts")
	assert.Equal(t, mdast.ElemTableRow, rows[0].Elem)

	var nilNode *mdast.Node
	assert.Nil(t, nilNode.Children())
	assert.False(t, nilNode.HasContent())
	assert.False(t, mdast.TreeBuilder{}.HR().(*mdast.Node).HasContent())
	assert.True(t, doc.HasContent())
}

func TestNode_PlainText(t *testing.T) {
	t.Parallel()

	b := mdast.TreeBuilder{}
	para := b.Paragraph([]mdast.Item{
		b.Text("See "),
		b.Link("/u", "", []mdast.Item{b.Strong([]mdast.Item{b.Text("the")}), b.Text(" docs")}),
		b.BR(),
		b.Text("."),
	}).(*mdast.Node)

	assert.Equal(t, "See the docs.", para.PlainText())
	assert.Equal(t, "c", buildTestTree().Children()[1].PlainText(), "header row is not content")

	var nilNode *mdast.Node
	assert.Empty(t, nilNode.PlainText())
}
