package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/mdtree/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors and summaries
	// (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized tree output.
	// Values: "auto" (default), "always", "never"
	Color string

	// Indent is the indentation width for JSON, YAML and tree output.
	// Zero produces compact JSON.
	Indent int

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// ShowStats displays per-file and per-elem node count tables.
	ShowStats bool

	// OutDir, when set, receives one output file per converted source.
	OutDir string

	// WorkingDir is the directory to make paths relative to. It is also
	// the root whose layout is mirrored under OutDir.
	WorkingDir string

	// Width truncates quoted text in tree output. Zero uses the terminal
	// width; negative disables truncation.
	Width int
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatJSON,
		Color:       "auto",
		Indent:      config.DefaultIndent,
		ShowSummary: true,
	}
}

// OptionsFromConfig fills output settings from cfg over the defaults.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if format, err := ParseFormat(string(cfg.Output.Format)); err == nil {
		opts.Format = format
	}
	opts.Indent = cfg.Output.Indent
	opts.OutDir = cfg.OutDir
	return opts
}
