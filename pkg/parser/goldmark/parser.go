// Package goldmark produces block token streams from Markdown source using
// the goldmark parser.
//
// goldmark builds a full block tree; the tokenizer flattens it back into
// the start/end token form the block package consumes, and collects link
// reference definitions into a token.Links table. Span text is kept raw so
// inline syntax is handled by the inline lexer, not by goldmark.
package goldmark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/token"
)

// Supported flavors.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// ErrFrontMatter is returned when a document starts with front matter
// that cannot be decoded.
var ErrFrontMatter = errors.New("invalid front matter")

// Options configures a Tokenizer.
type Options struct {
	// Flavor selects the block grammar. Unknown values mean CommonMark.
	Flavor string

	// FrontMatter strips a leading YAML, TOML or JSON front matter block
	// and returns its decoded contents.
	FrontMatter bool

	// DetectLanguage fills in the lang of code blocks without an info
	// string when the language can be guessed.
	DetectLanguage bool
}

// Result is the tokenized form of one document.
type Result struct {
	token.Document

	// FrontMatter holds decoded front matter. Nil when there is none.
	FrontMatter map[string]any `json:"front_matter,omitempty" yaml:"front_matter,omitempty"`
}

// Tokenizer turns Markdown source into block tokens. It is safe for
// concurrent use.
type Tokenizer struct {
	opts Options
	md   goldmark.Markdown
}

// New creates a tokenizer for the given options.
func New(opts Options) *Tokenizer {
	opts.Flavor = flavorOrDefault(opts.Flavor)
	return &Tokenizer{
		opts: opts,
		md:   newGoldmarkInstance(opts.Flavor),
	}
}

// Flavor returns the configured Markdown flavor.
func (t *Tokenizer) Flavor() string {
	return t.opts.Flavor
}

// Tokenize splits off front matter, parses the body and flattens it into a
// token stream with its link table.
func (t *Tokenizer) Tokenize(ctx context.Context, content []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tokenize cancelled: %w", err)
	}

	logger := logging.FromContext(ctx)
	start := time.Now()

	result := &Result{}
	body := content
	if t.opts.FrontMatter {
		meta, rest, err := splitFrontMatter(content)
		if err != nil {
			return nil, err
		}
		result.FrontMatter = meta
		body = rest
	}

	pc := parser.NewContext()
	doc := t.md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tokenize cancelled: %w", err)
	}

	m := newMapper(body, t.opts.DetectLanguage)
	m.mapBlocks(doc)
	result.Tokens = m.tokens

	result.Links = token.Links{}
	for _, ref := range pc.References() {
		result.Links.Add(string(ref.Label()), string(ref.Destination()), string(ref.Title()))
	}

	logger.Debug("tokenized",
		logging.FieldFlavor, t.opts.Flavor,
		logging.FieldTokens, len(result.Tokens),
		logging.FieldLinks, len(result.Links),
		logging.FieldFrontMatter, result.FrontMatter != nil,
		logging.FieldElapsed, time.Since(start),
	)

	return result, nil
}

// splitFrontMatter decodes a leading front matter block. Documents without
// one are returned unchanged with nil metadata.
func splitFrontMatter(content []byte) (map[string]any, []byte, error) {
	var meta map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrFrontMatter, err)
	}
	if len(meta) == 0 {
		return nil, rest, nil
	}
	return normalizeMeta(meta), rest, nil
}

// normalizeMeta converts the map[any]any values produced by YAML decoding
// into map[string]any so metadata can be serialized as JSON.
func normalizeMeta(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[fmt.Sprint(k)] = normalizeValue(inner)
		}
		return out
	case map[string]any:
		return normalizeMeta(val)
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	case FlavorCommonMark:
	}

	return goldmark.New(opts...)
}
