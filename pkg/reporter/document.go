package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// DocumentVersion is the schema version of RunDocument.
const DocumentVersion = "1.0.0"

// RunDocument is the top-level JSON and YAML structure.
type RunDocument struct {
	Version string          `json:"version" yaml:"version"`
	RunID   string          `json:"run_id" yaml:"run_id"`
	Files   []FileDocument  `json:"files" yaml:"files"`
	Summary SummaryDocument `json:"summary" yaml:"summary"`
}

// FileDocument is the converted form of one source file.
type FileDocument struct {
	Path        string         `json:"path" yaml:"path"`
	FrontMatter map[string]any `json:"front_matter,omitempty" yaml:"front_matter,omitempty"`
	AST         *mdast.Node    `json:"ast,omitempty" yaml:"ast,omitempty"`

	// Output is the per-file output path when writing to a directory.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Skipped bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// SummaryDocument contains aggregate statistics.
type SummaryDocument struct {
	FilesDiscovered int            `json:"files_discovered" yaml:"files_discovered"`
	FilesConverted  int            `json:"files_converted" yaml:"files_converted"`
	FilesSkipped    int            `json:"files_skipped" yaml:"files_skipped"`
	FilesFailed     int            `json:"files_failed" yaml:"files_failed"`
	Nodes           int            `json:"nodes" yaml:"nodes"`
	NodesByElem     map[string]int `json:"nodes_by_elem,omitempty" yaml:"nodes_by_elem,omitempty"`
}

func fileDocument(file runner.FileOutcome, workDir string) FileDocument {
	doc := FileDocument{
		Path:    displayPath(file.Path, workDir),
		Skipped: file.Skipped,
	}
	if file.Error != nil {
		doc.Error = file.Error.Error()
	}
	if file.Result != nil {
		doc.FrontMatter = file.Result.FrontMatter
		doc.AST = file.Result.Root
	}
	return doc
}

func buildDocument(result *runner.Result, workDir string) *RunDocument {
	doc := &RunDocument{
		Version: DocumentVersion,
		Files:   make([]FileDocument, 0),
	}
	if result == nil {
		return doc
	}

	doc.RunID = result.RunID
	doc.Files = make([]FileDocument, 0, len(result.Files))
	for _, file := range result.Files {
		doc.Files = append(doc.Files, fileDocument(file, workDir))
	}

	doc.Summary = SummaryDocument{
		FilesDiscovered: result.Stats.FilesDiscovered,
		FilesConverted:  result.Stats.FilesConverted,
		FilesSkipped:    result.Stats.FilesSkipped,
		FilesFailed:     result.Stats.FilesFailed,
		Nodes:           result.Stats.Nodes,
		NodesByElem:     result.Stats.NodesByElem,
	}
	return doc
}

// encode writes v as JSON or YAML. For JSON an indent of zero is compact.
func encode(w io.Writer, format Format, v any, indent int) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if indent > 0 {
			enc.SetIndent(indent)
		}
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return nil
	case FormatJSON, FormatTree:
		enc := json.NewEncoder(w)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Marshal encodes a single file document in the given format.
func Marshal(format Format, doc FileDocument, indent int) ([]byte, error) {
	var buf bytes.Buffer
	if format == FormatTree {
		if err := dumpPlain(&buf, doc, indent); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := encode(&buf, format, doc, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dumpPlain writes an uncolored tree dump of doc.
func dumpPlain(w io.Writer, doc FileDocument, indent int) error {
	dumper := &mdast.Dumper{Indent: strings.Repeat(" ", max(indent, 1))}
	if doc.AST == nil {
		return nil
	}
	return dumper.Dump(w, doc.AST)
}
