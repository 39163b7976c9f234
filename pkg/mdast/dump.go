package mdast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dumper writes an indented, human-readable outline of a tree, one item
// per line. The optional Style hooks let callers colorize output.
type Dumper struct {
	// Indent is repeated once per depth level. Defaults to two spaces.
	Indent string

	// MaxTextWidth truncates quoted text longer than this many runes.
	// Zero disables truncation.
	MaxTextWidth int

	StyleElem func(string) string
	StyleOpts func(string) string
	StyleText func(string) string
}

// Dump returns the outline of n using default settings.
func Dump(n *Node) string {
	var sb strings.Builder
	//nolint:errcheck // strings.Builder never fails
	(&Dumper{}).Dump(&sb, n)
	return sb.String()
}

// Dump writes the outline of n to w.
func (d *Dumper) Dump(w io.Writer, n *Node) error {
	return d.node(w, n, 0)
}

func (d *Dumper) node(w io.Writer, n *Node, depth int) error {
	if n == nil {
		return nil
	}

	line := d.indent(depth) + style(d.StyleElem, n.Elem.String())
	if opts := formatOpts(n.Opts); opts != "" {
		line += " " + style(d.StyleOpts, opts)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	if n.Opts != nil && n.Opts.Header != nil {
		if _, err := fmt.Fprintln(w, d.indent(depth+1)+"(header)"); err != nil {
			return err
		}
		if err := d.node(w, n.Opts.Header, depth+2); err != nil {
			return err
		}
	}

	return d.items(w, n.Content, depth+1)
}

func (d *Dumper) items(w io.Writer, items []Item, depth int) error {
	for _, it := range items {
		switch v := it.(type) {
		case *Node:
			if err := d.node(w, v, depth); err != nil {
				return err
			}
		case Text:
			if _, err := fmt.Fprintln(w, d.indent(depth)+style(d.StyleText, d.quote(string(v)))); err != nil {
				return err
			}
		case Group:
			if _, err := fmt.Fprintln(w, d.indent(depth)+"[]"); err != nil {
				return err
			}
			if err := d.items(w, v, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Dumper) indent(depth int) string {
	unit := d.Indent
	if unit == "" {
		unit = "  "
	}
	return strings.Repeat(unit, depth)
}

func (d *Dumper) quote(s string) string {
	if d.MaxTextWidth > 0 {
		runes := []rune(s)
		if len(runes) > d.MaxTextWidth {
			return strconv.Quote(string(runes[:d.MaxTextWidth])) + "…"
		}
	}
	return strconv.Quote(s)
}

func formatOpts(o *Opts) string {
	if o == nil {
		return ""
	}

	var parts []string
	if o.Level != 0 {
		parts = append(parts, "level="+strconv.Itoa(o.Level))
	}
	if o.Raw != "" {
		parts = append(parts, "raw="+strconv.Quote(o.Raw))
	}
	if o.Lang != "" {
		parts = append(parts, "lang="+o.Lang)
	}
	if o.Escaped {
		parts = append(parts, "escaped")
	}
	if o.Ordered {
		parts = append(parts, "ordered")
	}
	if o.Flags != nil {
		parts = append(parts, "header="+strconv.FormatBool(o.Flags.Header))
		if o.Flags.Align != AlignNone {
			parts = append(parts, "align="+string(o.Flags.Align))
		}
	}
	if o.Href != "" {
		parts = append(parts, "href="+strconv.Quote(o.Href))
	}
	if o.Title != "" {
		parts = append(parts, "title="+strconv.Quote(o.Title))
	}

	if len(parts) == 0 {
		return ""
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func style(fn func(string) string, s string) string {
	if fn == nil {
		return s
	}
	return fn(s)
}
