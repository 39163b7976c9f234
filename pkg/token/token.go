// Package token defines the block token stream consumed by the block
// parser, and the link reference table consumed by the inline lexer.
//
// Field and type names follow the common token format of two-stage
// Markdown engines, so token documents produced by other tokenizers can
// be decoded directly with encoding/json.
package token

// Type discriminates block tokens.
type Type string

// Block token types.
const (
	Space          Type = "space"
	HR             Type = "hr"
	Heading        Type = "heading"
	Code           Type = "code"
	Table          Type = "table"
	BlockquoteOpen Type = "blockquote_start"
	BlockquoteEnd  Type = "blockquote_end"
	ListOpen       Type = "list_start"
	ListEnd        Type = "list_end"
	ListItemOpen   Type = "list_item_start"
	LooseItemOpen  Type = "loose_item_start"
	ListItemEnd    Type = "list_item_end"
	HTML           Type = "html"
	Paragraph      Type = "paragraph"
	Text           Type = "text"
)

// IsEnd returns true for container terminator types.
func (t Type) IsEnd() bool {
	switch t {
	case BlockquoteEnd, ListEnd, ListItemEnd:
		return true
	default:
		return false
	}
}

// Token is one unit of the block token stream. Only the fields relevant
// to Type are set.
type Token struct {
	Type Type `json:"type"`

	// Text is the span text of heading, paragraph, text, code and html tokens.
	Text string `json:"text,omitempty"`

	// Depth is the heading level.
	Depth int `json:"depth,omitempty"`

	// Lang is the code block info string.
	Lang string `json:"lang,omitempty"`

	// Escaped marks code text that is already escaped.
	Escaped bool `json:"escaped,omitempty"`

	// Ordered is set on list_start tokens of ordered lists.
	Ordered bool `json:"ordered,omitempty"`

	// Pre marks html tokens whose text must pass through verbatim.
	Pre bool `json:"pre,omitempty"`

	// Header holds the header cell texts of a table.
	Header []string `json:"header,omitempty"`

	// Align holds per-column alignment ("left", "center", "right" or "").
	Align []string `json:"align,omitempty"`

	// Cells holds the body rows of a table, each a slice of cell texts.
	Cells [][]string `json:"cells,omitempty"`
}

// Document is a serialized token stream together with its link table.
type Document struct {
	Tokens []Token `json:"tokens"`
	Links  Links   `json:"links,omitempty"`
}
