// Package inline lexes inline Markdown spans (emphasis, links, code spans
// and the like) into nodes produced by an injected Builder.
//
// Lexing applies a fixed, ordered cascade of rules to the head of the
// remaining text. The first rule that matches consumes its prefix and
// emits output; the loop then continues on the rest. The order is:
//
//	escape, autolink, url, tag, link, reflink/nolink,
//	strong, em, code, br, del, text
//
// url and del only exist in GFM mode.
package inline

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/yaklabco/mdtree/pkg/token"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 128

var (
	// ErrLexerStuck is returned when no rule matches the remaining text.
	// It indicates a gap in the grammar and is never retried.
	ErrLexerStuck = errors.New("inline lexer stuck")

	// ErrMaxDepthExceeded is returned when inline constructs nest deeper
	// than Options.MaxDepth.
	ErrMaxDepthExceeded = errors.New("inline nesting too deep")
)

// Builder constructs inline output values of type T.
type Builder[T any] interface {
	Text(s string) T
	Strong(content []T) T
	Em(content []T) T
	Codespan(code string) T
	BR() T
	Del(content []T) T
	Link(href, title string, content []T) T
	Image(href, title, alt string) T
}

// Options selects the grammar and post-processing.
type Options struct {
	// GFM enables bare URLs, strikethrough and the extended escape set.
	GFM bool

	// Breaks turns every newline inside a paragraph into a hard break.
	// Only meaningful with GFM.
	Breaks bool

	// Pedantic switches strong and em to the stricter original grammar.
	// Ignored when GFM is set.
	Pedantic bool

	// Smartypants converts quotes, dashes and ellipses in text runs.
	Smartypants bool

	// Mangle encodes email autolinks as numeric character references.
	Mangle bool

	// MaxDepth bounds recursive nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns GFM lexing with email mangling.
func DefaultOptions() Options {
	return Options{GFM: true, Mangle: true, MaxDepth: DefaultMaxDepth}
}

// rule is one entry of the cascade.
type rule[T any] struct {
	name string
	re   *regexp2.Regexp

	// apply turns a match into output. A non-empty requeue is pushed back
	// in front of the remaining text.
	apply func(caps captures, depth int) (out []T, requeue string, err error)
}

// Lexer lexes inline spans against a read-only link table.
type Lexer[T any] struct {
	build    Builder[T]
	links    token.Links
	opts     Options
	maxDepth int
	rules    []rule[T]
}

// NewLexer creates a lexer that emits through build and resolves
// reference links against links.
func NewLexer[T any](build Builder[T], links token.Links, opts Options) *Lexer[T] {
	if links == nil {
		links = token.Links{}
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	l := &Lexer[T]{
		build:    build,
		links:    links,
		opts:     opts,
		maxDepth: maxDepth,
	}
	l.rules = l.cascade(grammarFor(opts))
	return l
}

// cascade returns the rules of g in priority order, dropping disabled ones.
func (l *Lexer[T]) cascade(g *grammar) []rule[T] {
	all := []rule[T]{
		{name: "escape", re: g.escape, apply: l.escape},
		{name: "autolink", re: g.autolink, apply: l.autolink},
		{name: "url", re: g.url, apply: l.url},
		{name: "tag", re: g.tag, apply: l.tag},
		{name: "link", re: g.link, apply: l.link},
		{name: "reflink", re: g.reflink, apply: l.reflink},
		{name: "nolink", re: g.nolink, apply: l.reflink},
		{name: "strong", re: g.strong, apply: l.strong},
		{name: "em", re: g.em, apply: l.em},
		{name: "code", re: g.code, apply: l.code},
		{name: "br", re: g.br, apply: l.br},
		{name: "del", re: g.del, apply: l.del},
		{name: "text", re: g.text, apply: l.text},
	}

	rules := all[:0]
	for _, r := range all {
		if r.re != nil {
			rules = append(rules, r)
		}
	}
	return rules
}

// RuleNames returns the names of the active rules in priority order.
func (l *Lexer[T]) RuleNames() []string {
	names := make([]string, len(l.rules))
	for i, r := range l.rules {
		names[i] = r.name
	}
	return names
}

// Output lexes text into an ordered sequence of inline values.
func (l *Lexer[T]) Output(text string) ([]T, error) {
	return l.output(text, 0)
}

func (l *Lexer[T]) output(text string, depth int) ([]T, error) {
	if depth > l.maxDepth {
		return nil, fmt.Errorf("%w: limit %d", ErrMaxDepthExceeded, l.maxDepth)
	}

	var out []T
	src := []rune(text)

	for len(src) > 0 {
		matched := false

		for _, r := range l.rules {
			caps, n, err := exec(r.re, src)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", r.name, err)
			}
			if caps == nil {
				continue
			}

			emitted, requeue, err := r.apply(caps, depth)
			if err != nil {
				return nil, err
			}

			src = src[n:]
			if requeue != "" {
				src = append([]rune(requeue), src...)
			}
			out = append(out, emitted...)
			matched = true
			break
		}

		if !matched {
			return nil, fmt.Errorf("%w: at %q", ErrLexerStuck, string(src))
		}
	}

	return out, nil
}

func (l *Lexer[T]) escape(caps captures, _ int) ([]T, string, error) {
	return []T{l.build.Text(caps[1])}, "", nil
}

func (l *Lexer[T]) autolink(caps captures, _ int) ([]T, string, error) {
	var text, href string
	if caps[2] == "@" {
		addr := caps[1]
		if r := []rune(addr); len(r) > 6 && r[6] == ':' {
			addr = string(r[7:])
		}
		text = l.mangle(addr)
		href = l.mangle("mailto:") + text
	} else {
		text = caps[1]
		href = text
	}
	return []T{l.build.Link(href, "", []T{l.build.Text(text)})}, "", nil
}

func (l *Lexer[T]) url(caps captures, _ int) ([]T, string, error) {
	text := caps[1]
	return []T{l.build.Link(text, "", []T{l.build.Text(text)})}, "", nil
}

func (l *Lexer[T]) tag(caps captures, _ int) ([]T, string, error) {
	return []T{l.build.Text(caps[0])}, "", nil
}

func (l *Lexer[T]) link(caps captures, depth int) ([]T, string, error) {
	node, err := l.outputLink(caps, token.LinkRef{Href: caps[2], Title: caps[3]}, depth)
	if err != nil {
		return nil, "", err
	}
	return []T{node}, "", nil
}

// reflink resolves [text][label] and [text]. An unresolved reference
// emits only its first character and requeues the rest of the match, so
// the cursor always advances.
func (l *Lexer[T]) reflink(caps captures, depth int) ([]T, string, error) {
	ref, ok := l.links.Lookup(caps.either(2, 1))
	if !ok || ref.Href == "" {
		whole := []rune(caps[0])
		return []T{l.build.Text(string(whole[:1]))}, string(whole[1:]), nil
	}

	node, err := l.outputLink(caps, ref, depth)
	if err != nil {
		return nil, "", err
	}
	return []T{node}, "", nil
}

//nolint:ireturn // T is the builder's output type.
func (l *Lexer[T]) outputLink(caps captures, ref token.LinkRef, depth int) (T, error) {
	if caps[0][0] == '!' {
		return l.build.Image(ref.Href, ref.Title, caps[1]), nil
	}

	content, err := l.output(caps[1], depth+1)
	if err != nil {
		var zero T
		return zero, err
	}
	return l.build.Link(ref.Href, ref.Title, content), nil
}

func (l *Lexer[T]) strong(caps captures, depth int) ([]T, string, error) {
	content, err := l.output(caps.either(2, 1), depth+1)
	if err != nil {
		return nil, "", err
	}
	return []T{l.build.Strong(content)}, "", nil
}

func (l *Lexer[T]) em(caps captures, depth int) ([]T, string, error) {
	content, err := l.output(caps.either(2, 1), depth+1)
	if err != nil {
		return nil, "", err
	}
	return []T{l.build.Em(content)}, "", nil
}

func (l *Lexer[T]) code(caps captures, _ int) ([]T, string, error) {
	return []T{l.build.Codespan(caps[2])}, "", nil
}

func (l *Lexer[T]) br(_ captures, _ int) ([]T, string, error) {
	return []T{l.build.BR()}, "", nil
}

func (l *Lexer[T]) del(caps captures, depth int) ([]T, string, error) {
	content, err := l.output(caps[1], depth+1)
	if err != nil {
		return nil, "", err
	}
	return []T{l.build.Del(content)}, "", nil
}

func (l *Lexer[T]) text(caps captures, _ int) ([]T, string, error) {
	text := caps[0]
	if l.opts.Smartypants {
		var err error
		if text, err = smartypants(text); err != nil {
			return nil, "", err
		}
	}
	return []T{l.build.Text(text)}, "", nil
}

func (l *Lexer[T]) mangle(text string) string {
	if !l.opts.Mangle {
		return text
	}
	return mangle(text)
}
