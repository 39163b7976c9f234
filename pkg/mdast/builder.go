package mdast

// TreeBuilder constructs tree nodes. It has one constructor per Elem and
// satisfies the builder interfaces of the block and inline packages with
// Item as the output type.
//
// Constructors only wrap content that was already computed by the caller.
// They never parse, escape, or sanitize text, hold no state, and are safe
// for concurrent use.
type TreeBuilder struct{}

// NewNode creates a node of the given elem with the given content.
func NewNode(elem Elem, content ...Item) *Node {
	return &Node{Elem: elem, Content: content}
}

// NewDocument creates a root node holding the given top-level blocks.
func NewDocument(blocks ...Item) *Node {
	return NewNode(ElemMarkdown, blocks...)
}

// Document builds the root node.
func (TreeBuilder) Document(content []Item) Item {
	return &Node{Elem: ElemMarkdown, Content: content}
}

// Text wraps a literal text fragment.
func (TreeBuilder) Text(s string) Item {
	return Text(s)
}

// Heading builds a heading of the given level. raw keeps the original,
// un-lexed heading text.
func (TreeBuilder) Heading(content []Item, level int, raw string) Item {
	return &Node{
		Elem:    ElemHeading,
		Opts:    &Opts{Level: level, Raw: raw},
		Content: content,
	}
}

// Code builds a code block.
func (TreeBuilder) Code(code, lang string, escaped bool) Item {
	return &Node{
		Elem:    ElemCode,
		Opts:    &Opts{Lang: lang, Escaped: escaped},
		Content: []Item{Text(code)},
	}
}

// HR builds a thematic break.
func (TreeBuilder) HR() Item {
	return &Node{Elem: ElemHR}
}

// Table builds a table from its header row and body rows. The body rows
// are kept together as a single group.
func (TreeBuilder) Table(header Item, body []Item) Item {
	headerRow, _ := header.(*Node)
	return &Node{
		Elem:    ElemTable,
		Opts:    &Opts{Header: headerRow},
		Content: []Item{Group(body)},
	}
}

// TableRow builds a table row.
func (TreeBuilder) TableRow(cells []Item) Item {
	return &Node{Elem: ElemTableRow, Content: cells}
}

// TableCell builds a table cell.
func (TreeBuilder) TableCell(content []Item, flags CellFlags) Item {
	return &Node{
		Elem:    ElemTableCell,
		Opts:    &Opts{Flags: &flags},
		Content: content,
	}
}

// Blockquote builds a block quote.
func (TreeBuilder) Blockquote(content []Item) Item {
	return &Node{Elem: ElemBlockquote, Content: content}
}

// List builds a list.
func (TreeBuilder) List(items []Item, ordered bool) Item {
	return &Node{
		Elem:    ElemList,
		Opts:    &Opts{Ordered: ordered},
		Content: items,
	}
}

// ListItem builds a list item.
func (TreeBuilder) ListItem(content []Item) Item {
	return &Node{Elem: ElemListItem, Content: content}
}

// HTML builds a raw HTML block.
func (TreeBuilder) HTML(content []Item) Item {
	return &Node{Elem: ElemHTML, Content: content}
}

// Paragraph builds a paragraph.
func (TreeBuilder) Paragraph(content []Item) Item {
	return &Node{Elem: ElemParagraph, Content: content}
}

// Strong builds strong emphasis.
func (TreeBuilder) Strong(content []Item) Item {
	return &Node{Elem: ElemStrong, Content: content}
}

// Em builds emphasis.
func (TreeBuilder) Em(content []Item) Item {
	return &Node{Elem: ElemEm, Content: content}
}

// Codespan builds an inline code span.
func (TreeBuilder) Codespan(code string) Item {
	return &Node{Elem: ElemCodespan, Content: []Item{Text(code)}}
}

// BR builds a hard line break.
func (TreeBuilder) BR() Item {
	return &Node{Elem: ElemBR}
}

// Del builds strikethrough.
func (TreeBuilder) Del(content []Item) Item {
	return &Node{Elem: ElemDel, Content: content}
}

// Link builds a link.
func (TreeBuilder) Link(href, title string, content []Item) Item {
	return &Node{
		Elem:    ElemLink,
		Opts:    &Opts{Href: href, Title: title},
		Content: content,
	}
}

// Image builds an image. The alt text is kept verbatim.
func (TreeBuilder) Image(href, title, alt string) Item {
	return &Node{
		Elem:    ElemImage,
		Opts:    &Opts{Href: href, Title: title},
		Content: []Item{Text(alt)},
	}
}
