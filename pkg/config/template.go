package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a commented configuration file holding the
// default settings.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	return []byte(DefaultTemplateHeader() + `

# Markdown flavor: commonmark or gfm
flavor: gfm

parse:
  # Original strong/em grammar; html blocks pass through untouched
  pedantic: false
  # Typographic quotes, dashes and ellipses
  smartypants: false
  # Single newlines inside paragraphs become hard breaks
  breaks: false
  # Obfuscate email autolinks with character references
  mangle: true
  # Maximum container and inline nesting
  max_depth: 128

tokenizer:
  # Split off a leading YAML, TOML or JSON front matter block
  front_matter: true
  # Guess the language of code blocks without an info string
  detect_language: false

output:
  # Output format: json, yaml or tree
  format: json
  indent: 2

# File patterns to skip (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`), nil
}

func templateToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(NewConfig(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdtree configuration
# See: https://github.com/yaklabco/mdtree`
}
