package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/mdtree/pkg/langdetect"
	"github.com/yaklabco/mdtree/pkg/token"
)

// mapper flattens a goldmark block tree into a token stream.
type mapper struct {
	source []byte
	detect bool
	tokens []token.Token
}

func newMapper(source []byte, detect bool) *mapper {
	return &mapper{source: source, detect: detect}
}

func (m *mapper) emit(tok token.Token) {
	m.tokens = append(m.tokens, tok)
}

// mapBlocks maps every child of parent. A blank line before a block
// becomes a space token.
func (m *mapper) mapBlocks(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if definitionsOnly(child) {
			continue
		}
		if child.HasBlankPreviousLines() && m.canSpace() {
			m.emit(token.Token{Type: token.Space})
		}
		m.mapBlock(child)
	}
}

// definitionsOnly reports whether node is a paragraph whose lines were all
// consumed as link reference definitions.
func definitionsOnly(node ast.Node) bool {
	switch node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return node.Lines().Len() == 0
	}
	return false
}

func (m *mapper) canSpace() bool {
	n := len(m.tokens)
	return n > 0 && m.tokens[n-1].Type != token.Space
}

//nolint:cyclop // One arm per block kind.
func (m *mapper) mapBlock(node ast.Node) {
	switch n := node.(type) {
	case *ast.Heading:
		m.emit(token.Token{
			Type:  token.Heading,
			Depth: n.Level,
			Text:  strings.TrimSpace(m.lines(n)),
		})

	case *ast.Paragraph:
		m.emit(token.Token{Type: token.Paragraph, Text: m.span(n)})

	case *ast.TextBlock:
		m.emit(token.Token{Type: token.Text, Text: m.span(n)})

	case *ast.ThematicBreak:
		m.emit(token.Token{Type: token.HR})

	case *ast.FencedCodeBlock:
		m.mapCode(m.lines(n), firstWord(n.Language(m.source)))

	case *ast.CodeBlock:
		m.mapCode(m.lines(n), "")

	case *ast.HTMLBlock:
		m.mapHTML(n)

	case *ast.Blockquote:
		m.emit(token.Token{Type: token.BlockquoteOpen})
		m.mapBlocks(n)
		m.emit(token.Token{Type: token.BlockquoteEnd})

	case *ast.List:
		m.mapList(n)

	case *east.Table:
		m.mapTable(n)

	default:
		m.mapBlocks(node)
	}
}

func (m *mapper) mapCode(code, lang string) {
	code = strings.TrimRight(code, "\n")
	if lang == "" && m.detect {
		if guess, ok := langdetect.Detect([]byte(code)); ok {
			lang = guess
		}
	}
	m.emit(token.Token{Type: token.Code, Text: code, Lang: lang})
}

func (m *mapper) mapHTML(n *ast.HTMLBlock) {
	html := m.lines(n)
	if n.HasClosure() {
		html += string(n.ClosureLine.Value(m.source))
	}
	m.emit(token.Token{
		Type: token.HTML,
		Text: strings.TrimRight(html, "\n"),
		Pre:  n.HTMLBlockType == ast.HTMLBlockType1,
	})
}

func (m *mapper) mapList(list *ast.List) {
	m.emit(token.Token{Type: token.ListOpen, Ordered: list.IsOrdered()})

	open := token.LooseItemOpen
	if list.IsTight {
		open = token.ListItemOpen
	}

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		m.emit(token.Token{Type: open})
		m.mapBlocks(item)
		m.emit(token.Token{Type: token.ListItemEnd})
	}

	m.emit(token.Token{Type: token.ListEnd})
}

func (m *mapper) mapTable(table *east.Table) {
	tok := token.Token{Type: token.Table}
	for _, a := range table.Alignments {
		tok.Align = append(tok.Align, alignName(a))
	}

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(m.lines(cell)))
		}

		if _, ok := row.(*east.TableHeader); ok {
			tok.Header = cells
			continue
		}
		tok.Cells = append(tok.Cells, cells)
	}

	m.emit(tok)
}

// lines returns the raw source of every line segment of n.
func (m *mapper) lines(n ast.Node) string {
	segments := n.Lines()
	var buf bytes.Buffer
	for i := range segments.Len() {
		seg := segments.At(i)
		buf.Write(seg.Value(m.source))
	}
	return buf.String()
}

// span returns the text of a paragraph-like block without its final
// line ending.
func (m *mapper) span(n ast.Node) string {
	return strings.TrimRight(m.lines(n), "\n")
}

func alignName(a east.Alignment) string {
	switch a {
	case east.AlignLeft:
		return "left"
	case east.AlignCenter:
		return "center"
	case east.AlignRight:
		return "right"
	case east.AlignNone:
		return ""
	default:
		return ""
	}
}

func firstWord(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
