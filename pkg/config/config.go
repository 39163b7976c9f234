// Package config defines the configuration types for mdtree.
// These types are plain data; loading and merging live in internal/configloader.
package config

// Flavor specifies the Markdown flavor to use for tokenizing and inline lexing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies how converted trees are written.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatTree OutputFormat = "tree"
)

// Defaults.
const (
	DefaultMaxDepth = 128
	DefaultIndent   = 2
)

// ParseConfig controls the block parser and inline lexer.
type ParseConfig struct {
	// Pedantic switches to the original strong/em grammar and passes
	// html blocks through untouched.
	Pedantic bool `json:"pedantic" mapstructure:"pedantic" yaml:"pedantic"`

	// Smartypants converts quotes, dashes and ellipses in text.
	Smartypants bool `json:"smartypants" mapstructure:"smartypants" yaml:"smartypants"`

	// Breaks turns single newlines inside paragraphs into hard breaks.
	Breaks bool `json:"breaks" mapstructure:"breaks" yaml:"breaks"`

	// Mangle obfuscates email autolinks with character references.
	// Nil means enabled.
	Mangle *bool `json:"mangle,omitempty" mapstructure:"mangle" yaml:"mangle,omitempty"`

	// MaxDepth bounds container and inline nesting. Zero means the default.
	MaxDepth int `json:"max_depth" mapstructure:"max_depth" yaml:"max_depth"`
}

// TokenizerConfig controls how source files become block tokens.
type TokenizerConfig struct {
	// FrontMatter strips and decodes a leading front matter block.
	// Nil means enabled.
	FrontMatter *bool `json:"front_matter,omitempty" mapstructure:"front_matter" yaml:"front_matter,omitempty"`

	// DetectLanguage guesses the language of code blocks without an
	// info string.
	DetectLanguage bool `json:"detect_language" mapstructure:"detect_language" yaml:"detect_language"`
}

// OutputConfig controls result serialization.
type OutputConfig struct {
	Format OutputFormat `json:"format" mapstructure:"format" yaml:"format"`
	Indent int          `json:"indent" mapstructure:"indent" yaml:"indent"`
}

// Config is the root configuration structure for mdtree.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `json:"flavor" mapstructure:"flavor" yaml:"flavor"`

	Parse     ParseConfig     `json:"parse" mapstructure:"parse" yaml:"parse"`
	Tokenizer TokenizerConfig `json:"tokenizer" mapstructure:"tokenizer" yaml:"tokenizer"`
	Output    OutputConfig    `json:"output" mapstructure:"output" yaml:"output"`

	// Ignore contains glob patterns for files to skip during discovery.
	Ignore []string `json:"ignore" mapstructure:"ignore" yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `json:"-" mapstructure:"-" yaml:"-"`

	// OutDir writes one output file per input file into this directory.
	OutDir string `json:"-" mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor: FlavorGFM,
		Parse: ParseConfig{
			Mangle:   Bool(true),
			MaxDepth: DefaultMaxDepth,
		},
		Tokenizer: TokenizerConfig{
			FrontMatter: Bool(true),
		},
		Output: OutputConfig{
			Format: FormatJSON,
			Indent: DefaultIndent,
		},
		Jobs: 0, // 0 means use GOMAXPROCS
	}
}

// MangleEnabled reports whether email autolinks are mangled.
func (c *Config) MangleEnabled() bool {
	return c.Parse.Mangle == nil || *c.Parse.Mangle
}

// FrontMatterEnabled reports whether front matter is split off.
func (c *Config) FrontMatterEnabled() bool {
	return c.Tokenizer.FrontMatter == nil || *c.Tokenizer.FrontMatter
}

// GFM reports whether the GitHub Flavored Markdown grammar is selected.
func (c *Config) GFM() bool {
	return c.Flavor == FlavorGFM
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
