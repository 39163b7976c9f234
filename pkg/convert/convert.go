// Package convert turns Markdown documents into mdast trees.
//
// A conversion runs the goldmark tokenizer over the source, then feeds the
// token stream and link table to the block parser with an mdast builder.
package convert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/block"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/inline"
	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
	"github.com/yaklabco/mdtree/pkg/token"
)

// Conversion error types for categorization.
var (
	// ErrTokenize indicates the source could not be tokenized.
	ErrTokenize = errors.New("tokenize failure")

	// ErrParse indicates the token stream could not be turned into a tree.
	ErrParse = errors.New("parse failure")

	// ErrSourceChanged indicates the file changed while it was converted.
	ErrSourceChanged = errors.New("source changed during conversion")
)

// Options configures a Converter.
type Options struct {
	Tokenizer goldmark.Options
	Parse     block.Options
}

// DefaultOptions returns GFM tokenizing and parsing with front matter
// support.
func DefaultOptions() Options {
	return Options{
		Tokenizer: goldmark.Options{Flavor: goldmark.FlavorGFM, FrontMatter: true},
		Parse:     block.DefaultOptions(),
	}
}

// OptionsFromConfig derives converter options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}

	return Options{
		Tokenizer: goldmark.Options{
			Flavor:         string(cfg.Flavor),
			FrontMatter:    cfg.FrontMatterEnabled(),
			DetectLanguage: cfg.Tokenizer.DetectLanguage,
		},
		Parse: block.Options{
			Inline: inline.Options{
				GFM:         cfg.GFM(),
				Breaks:      cfg.Parse.Breaks,
				Pedantic:    cfg.Parse.Pedantic,
				Smartypants: cfg.Parse.Smartypants,
				Mangle:      cfg.MangleEnabled(),
				MaxDepth:    cfg.Parse.MaxDepth,
			},
			MaxDepth: cfg.Parse.MaxDepth,
		},
	}
}

// Result is the converted form of one document.
type Result struct {
	// Path is the source path. Empty for in-memory input.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// FrontMatter holds decoded front matter, if any.
	FrontMatter map[string]any `json:"front_matter,omitempty" yaml:"front_matter,omitempty"`

	// Root is the document node.
	Root *mdast.Node `json:"root" yaml:"root"`

	// Tokens and Links are the intermediate block stream the tree was
	// built from.
	Tokens []token.Token `json:"-" yaml:"-"`
	Links  token.Links   `json:"-" yaml:"-"`
}

// Converter runs the tokenize and parse stages. It is safe for concurrent
// use.
type Converter struct {
	tokenizer *goldmark.Tokenizer
	parser    *block.Parser[mdast.Item]
}

// New creates a converter for opts.
func New(opts Options) *Converter {
	return &Converter{
		tokenizer: goldmark.New(opts.Tokenizer),
		parser:    block.NewParser[mdast.Item](mdast.TreeBuilder{}, opts.Parse),
	}
}

// FromConfig creates a converter for a resolved configuration.
func FromConfig(cfg *config.Config) *Converter {
	return New(OptionsFromConfig(cfg))
}

// Convert tokenizes and parses content. path is only recorded on the
// result and in log output.
func (c *Converter) Convert(ctx context.Context, path string, content []byte) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	tokens, err := c.tokenizer.Tokenize(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenize, err)
	}

	root, err := c.Build(ctx, tokens.Document)
	if err != nil {
		return nil, err
	}

	logger.Debug("converted",
		logging.FieldPath, path,
		logging.FieldTokens, len(tokens.Tokens),
		logging.FieldNodes, countNodes(root),
		logging.FieldElapsed, time.Since(start),
	)

	return &Result{
		Path:        path,
		FrontMatter: tokens.FrontMatter,
		Root:        root,
		Tokens:      tokens.Tokens,
		Links:       tokens.Links,
	}, nil
}

// Build parses an already tokenized document.
func (c *Converter) Build(ctx context.Context, doc token.Document) (*mdast.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	out, err := c.parser.Parse(doc.Tokens, doc.Links)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	root, ok := out.(*mdast.Node)
	if !ok {
		return nil, fmt.Errorf("%w: document is %T", ErrParse, out)
	}
	return root, nil
}

// ConvertFile reads and converts the file at path. It fails with
// ErrSourceChanged if the file is modified before conversion finishes.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*Result, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := c.Convert(ctx, path, content)
	if err != nil {
		return nil, err
	}

	modified, err := fsutil.CheckModified(ctx, info, false)
	if err != nil {
		return nil, err
	}
	if modified {
		return nil, fmt.Errorf("%w: %s", ErrSourceChanged, path)
	}

	return result, nil
}

func countNodes(root *mdast.Node) int {
	n := 0
	for _, c := range mdast.Count(root) {
		n += c
	}
	return n
}
