// Package mdast provides the Markdown syntax tree produced by mdtree.
//
// A tree is made of Nodes. Each Node carries an Elem tag, optional
// tag-specific Opts, and an ordered Content sequence whose items are
// child nodes, literal Text fragments, or nested Groups. Trees are built
// bottom-up by TreeBuilder and are not mutated after construction.
package mdast

// Elem identifies the kind of a node.
type Elem uint8

// Node elems for block-level and inline-level Markdown elements.
const (
	ElemMarkdown Elem = iota

	// Block-level elems.
	ElemHeading
	ElemCode
	ElemHR
	ElemTable
	ElemTableRow
	ElemTableCell
	ElemBlockquote
	ElemList
	ElemListItem
	ElemHTML
	ElemParagraph

	// Inline-level elems.
	ElemStrong
	ElemEm
	ElemCodespan
	ElemBR
	ElemDel
	ElemLink
	ElemImage

	elemCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var elemNames = [elemCount]string{
	ElemMarkdown:   "markdown",
	ElemHeading:    "heading",
	ElemCode:       "code",
	ElemHR:         "hr",
	ElemTable:      "table",
	ElemTableRow:   "tablerow",
	ElemTableCell:  "tablecell",
	ElemBlockquote: "blockquote",
	ElemList:       "list",
	ElemListItem:   "listitem",
	ElemHTML:       "html",
	ElemParagraph:  "paragraph",
	ElemStrong:     "strong",
	ElemEm:         "em",
	ElemCodespan:   "codespan",
	ElemBR:         "br",
	ElemDel:        "del",
	ElemLink:       "link",
	ElemImage:      "image",
}

// String returns the wire name of the elem, e.g. "tablecell".
func (e Elem) String() string {
	if e >= elemCount {
		return "unknown"
	}
	return elemNames[e]
}

// ParseElem resolves a wire name back to its Elem.
func ParseElem(name string) (Elem, bool) {
	for i, n := range elemNames {
		if n == name {
			return Elem(i), true
		}
	}
	return 0, false
}

// IsBlock returns true for block-level elems, including the root.
func (e Elem) IsBlock() bool {
	return e <= ElemParagraph
}

// IsInline returns true for inline-level elems.
func (e Elem) IsInline() bool {
	return e > ElemParagraph && e < elemCount
}

// Item is one entry of a node's Content: a *Node, a Text, or a Group.
// The set of implementations is closed.
type Item interface {
	item()
}

// Text is a literal text fragment. It is stored exactly as it appeared
// in the source after inline processing; no escaping is applied.
type Text string

// Group is a nested ordered sequence of items, used where a node holds
// a list of rows rather than inline content.
type Group []Item

func (*Node) item() {}
func (Text) item()  {}
func (Group) item() {}

// Node is a single element of the Markdown tree.
type Node struct {
	// Elem identifies what kind of node this is.
	Elem Elem

	// Opts holds tag-specific attributes. Nil when the elem has none.
	Opts *Opts

	// Content holds children in document order.
	Content []Item
}

// Children returns the direct child nodes, skipping text and descending
// into groups.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var children []*Node
	collectNodes(n.Content, &children)
	return children
}

func collectNodes(items []Item, out *[]*Node) {
	for _, it := range items {
		switch v := it.(type) {
		case *Node:
			*out = append(*out, v)
		case Group:
			collectNodes(v, out)
		case Text:
		}
	}
}

// HasContent returns true if the node has at least one content item.
func (n *Node) HasContent() bool {
	return n != nil && len(n.Content) > 0
}

// PlainText returns the concatenation of every Text fragment under n,
// in document order.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	var buf []byte
	appendText(&buf, n.Content)
	return string(buf)
}

func appendText(buf *[]byte, items []Item) {
	for _, it := range items {
		switch v := it.(type) {
		case Text:
			*buf = append(*buf, v...)
		case *Node:
			appendText(buf, v.Content)
		case Group:
			appendText(buf, v)
		}
	}
}
