package mdast

// Align is the column alignment of a table cell.
// The empty string means no alignment was specified.
type Align string

const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// CellFlags describes a table cell's position and alignment.
type CellFlags struct {
	// Header is true for cells of the header row.
	Header bool `json:"header" yaml:"header"`

	// Align is the alignment of the cell's column.
	Align Align `json:"align" yaml:"align"`
}

// Opts holds tag-specific node attributes. Only the fields relevant to a
// node's Elem are set.
type Opts struct {
	// Level is the heading level (1-6) for ElemHeading.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	// Raw is the un-lexed heading text for ElemHeading.
	Raw string `json:"raw,omitempty" yaml:"raw,omitempty"`

	// Lang is the info string of an ElemCode block.
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	// Escaped marks ElemCode content that is already escaped upstream.
	Escaped bool `json:"escaped,omitempty" yaml:"escaped,omitempty"`

	// Ordered is true for ordered ElemList nodes.
	Ordered bool `json:"ordered,omitempty" yaml:"ordered,omitempty"`

	// Header is the header row of an ElemTable.
	Header *Node `json:"header,omitempty" yaml:"header,omitempty"`

	// Flags holds the cell flags of an ElemTableCell.
	Flags *CellFlags `json:"flags,omitempty" yaml:"flags,omitempty"`

	// Href is the destination of an ElemLink or ElemImage.
	Href string `json:"href,omitempty" yaml:"href,omitempty"`

	// Title is the optional title of an ElemLink or ElemImage.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}
