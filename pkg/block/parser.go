// Package block builds a tree from a block token stream.
//
// The parser walks the stream front to back. Leaf tokens become nodes
// directly; span text is handed to an inline.Lexer; container start
// tokens recurse until their matching end token. Output values are
// produced by an injected Builder, so the same walk can yield an
// mdast tree or any other representation.
package block

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/mdtree/pkg/inline"
	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/token"
)

// DefaultMaxDepth is the container nesting limit used when
// Options.MaxDepth is zero.
const DefaultMaxDepth = 128

var (
	// ErrUnexpectedEndOfStream is returned when the stream ends inside an
	// open container.
	ErrUnexpectedEndOfStream = errors.New("unexpected end of token stream")

	// ErrUnexpectedToken is returned for end tokens that close nothing and
	// for unknown token types.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrMaxDepthExceeded is returned when containers nest deeper than
	// Options.MaxDepth.
	ErrMaxDepthExceeded = errors.New("block nesting too deep")
)

// Builder constructs block and inline output values of type T.
type Builder[T any] interface {
	inline.Builder[T]

	Document(content []T) T
	Heading(content []T, level int, raw string) T
	Code(code, lang string, escaped bool) T
	HR() T
	Table(header T, body []T) T
	TableRow(cells []T) T
	TableCell(content []T, flags mdast.CellFlags) T
	Blockquote(content []T) T
	List(items []T, ordered bool) T
	ListItem(content []T) T
	HTML(content []T) T
	Paragraph(content []T) T
}

// Options configures a Parser.
type Options struct {
	// Inline configures the lexer used for span text. Inline.Pedantic
	// also makes html blocks pass through without lexing.
	Inline inline.Options

	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns GFM parsing with the default depth limits.
func DefaultOptions() Options {
	return Options{
		Inline:   inline.DefaultOptions(),
		MaxDepth: DefaultMaxDepth,
	}
}

// Parser turns token streams into trees. It holds no per-parse state and
// may be reused and shared.
type Parser[T any] struct {
	build Builder[T]
	opts  Options
}

// NewParser creates a parser that emits through build.
func NewParser[T any](build Builder[T], opts Options) *Parser[T] {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser[T]{build: build, opts: opts}
}

// Parse builds the document for tokens, resolving reference links against
// links. On error no partial document is returned.
//
//nolint:ireturn // T is the builder's output type.
func (p *Parser[T]) Parse(tokens []token.Token, links token.Links) (T, error) {
	st := &state[T]{
		build:    p.build,
		lexer:    inline.NewLexer[T](p.build, links, p.opts.Inline),
		stream:   token.NewStream(tokens),
		pedantic: p.opts.Inline.Pedantic,
		maxDepth: p.opts.MaxDepth,
	}

	var zero T
	var blocks []T
	for {
		tok, ok := st.stream.Next()
		if !ok {
			break
		}
		out, emitted, err := st.tok(tok, 0)
		if err != nil {
			return zero, err
		}
		if emitted {
			blocks = append(blocks, out)
		}
	}

	return p.build.Document(blocks), nil
}

// ParseTree parses tokens into an mdast tree.
func ParseTree(tokens []token.Token, links token.Links, opts Options) (*mdast.Node, error) {
	root, err := NewParser[mdast.Item](mdast.TreeBuilder{}, opts).Parse(tokens, links)
	if err != nil {
		return nil, err
	}
	doc, _ := root.(*mdast.Node)
	return doc, nil
}

// state is the per-parse cursor. One is created for every Parse call.
type state[T any] struct {
	build    Builder[T]
	lexer    *inline.Lexer[T]
	stream   *token.Stream
	pedantic bool
	maxDepth int
}

// tok dispatches a single token. emitted is false for tokens that produce
// no node.
//
//nolint:ireturn,cyclop // One arm per token type.
func (s *state[T]) tok(tok token.Token, depth int) (T, bool, error) {
	var zero T

	switch tok.Type {
	case token.Space:
		return zero, false, nil

	case token.HR:
		return s.build.HR(), true, nil

	case token.Code:
		return s.build.Code(tok.Text, tok.Lang, tok.Escaped), true, nil

	case token.HTML:
		if tok.Pre || s.pedantic {
			return s.build.HTML([]T{s.build.Text(tok.Text)}), true, nil
		}
		content, err := s.inline(tok.Text)
		if err != nil {
			return zero, false, err
		}
		return s.build.HTML(content), true, nil

	case token.Heading:
		content, err := s.inline(tok.Text)
		if err != nil {
			return zero, false, err
		}
		return s.build.Heading(content, tok.Depth, tok.Text), true, nil

	case token.Paragraph:
		content, err := s.inline(tok.Text)
		if err != nil {
			return zero, false, err
		}
		return s.build.Paragraph(content), true, nil

	case token.Text:
		content, err := s.text(tok)
		if err != nil {
			return zero, false, err
		}
		return s.build.Paragraph(content), true, nil

	case token.Table:
		table, err := s.table(tok)
		if err != nil {
			return zero, false, err
		}
		return table, true, nil

	case token.BlockquoteOpen:
		body, err := s.container(tok.Type, token.BlockquoteEnd, false, depth)
		if err != nil {
			return zero, false, err
		}
		return s.build.Blockquote(body), true, nil

	case token.ListOpen:
		body, err := s.container(tok.Type, token.ListEnd, false, depth)
		if err != nil {
			return zero, false, err
		}
		return s.build.List(body, tok.Ordered), true, nil

	case token.ListItemOpen, token.LooseItemOpen:
		body, err := s.container(tok.Type, token.ListItemEnd, tok.Type == token.ListItemOpen, depth)
		if err != nil {
			return zero, false, err
		}
		return s.build.ListItem(body), true, nil

	case token.BlockquoteEnd, token.ListEnd, token.ListItemEnd:
		return zero, false, fmt.Errorf("%w: %s without matching start", ErrUnexpectedToken, tok.Type)

	default:
		return zero, false, fmt.Errorf("%w: unknown type %q", ErrUnexpectedToken, tok.Type)
	}
}

// container consumes tokens up to and including end. In a tight list item
// a text run is lexed straight into the item instead of becoming a
// paragraph.
func (s *state[T]) container(open, end token.Type, tight bool, depth int) ([]T, error) {
	if depth >= s.maxDepth {
		return nil, fmt.Errorf("%w: %s at depth %d", ErrMaxDepthExceeded, open, depth+1)
	}

	var body []T
	for {
		tok, ok := s.stream.Next()
		if !ok {
			return nil, fmt.Errorf("%w: %s is never closed by %s", ErrUnexpectedEndOfStream, open, end)
		}
		if tok.Type == end {
			return body, nil
		}

		if tight && tok.Type == token.Text {
			content, err := s.text(tok)
			if err != nil {
				return nil, err
			}
			body = append(body, content...)
			continue
		}

		out, emitted, err := s.tok(tok, depth+1)
		if err != nil {
			return nil, err
		}
		if emitted {
			body = append(body, out)
		}
	}
}

// text lexes tok together with every text token directly after it.
func (s *state[T]) text(tok token.Token) ([]T, error) {
	parts := []string{tok.Text}
	for {
		next, ok := s.stream.Peek()
		if !ok || next.Type != token.Text {
			break
		}
		s.stream.Next()
		parts = append(parts, next.Text)
	}
	return s.inline(strings.Join(parts, "\n"))
}

//nolint:ireturn // T is the builder's output type.
func (s *state[T]) table(tok token.Token) (T, error) {
	var zero T

	header, err := s.row(tok.Header, tok.Align, true)
	if err != nil {
		return zero, err
	}

	body := make([]T, 0, len(tok.Cells))
	for _, cells := range tok.Cells {
		row, err := s.row(cells, tok.Align, false)
		if err != nil {
			return zero, err
		}
		body = append(body, row)
	}

	return s.build.Table(header, body), nil
}

//nolint:ireturn // T is the builder's output type.
func (s *state[T]) row(cells, align []string, header bool) (T, error) {
	var zero T

	out := make([]T, 0, len(cells))
	for i, cell := range cells {
		content, err := s.inline(cell)
		if err != nil {
			return zero, err
		}
		flags := mdast.CellFlags{Header: header, Align: columnAlign(align, i)}
		out = append(out, s.build.TableCell(content, flags))
	}
	return s.build.TableRow(out), nil
}

func (s *state[T]) inline(text string) ([]T, error) {
	out, err := s.lexer.Output(text)
	if err != nil {
		return nil, fmt.Errorf("lex %q: %w", truncate(text, 40), err)
	}
	return out, nil
}

func columnAlign(align []string, col int) mdast.Align {
	if col >= len(align) {
		return mdast.AlignNone
	}
	switch a := mdast.Align(align[col]); a {
	case mdast.AlignLeft, mdast.AlignCenter, mdast.AlignRight:
		return a
	default:
		return mdast.AlignNone
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
