// Package logging wraps charmbracelet/log with the conventions used across
// mdtree: one process-wide default logger, a context carrier, and shared
// field names.
package logging

// Structured field names.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldPaths   = "paths"
	FieldOutput  = "output"
	FieldFormat  = "format"
	FieldRunID   = "run_id"
	FieldChanged = "changed"

	// Parse options.
	FieldFlavor   = "flavor"
	FieldJobs     = "jobs"
	FieldMaxDepth = "max_depth"

	// Per-file parse results.
	FieldTokens      = "tokens"
	FieldLinks       = "links"
	FieldNodes       = "nodes"
	FieldFrontMatter = "front_matter"
	FieldElapsed     = "elapsed"

	// Run statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesConverted  = "files_converted"
	FieldFilesFailed     = "files_failed"

	// Build information.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
