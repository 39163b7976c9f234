package runner

import (
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/yaklabco/mdtree/pkg/convert"
	"github.com/yaklabco/mdtree/pkg/mdast"
)

// FileOutcome is the conversion outcome for one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result holds the converted document. Nil when Error is set.
	Result *convert.Result

	// Error is set if the file could not be converted.
	Error error

	// Skipped is set when the file changed while it was being converted.
	Skipped bool
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesConverted  int
	FilesSkipped    int
	FilesFailed     int

	// Nodes is the total number of nodes across all converted documents.
	Nodes int

	// NodesByElem maps element names to node counts.
	NodesByElem map[string]int
}

// Result is the overall runner result.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Files are ordered by path.
	Files []FileOutcome

	Stats   Stats
	Elapsed time.Duration
}

// HasFailures reports whether any file failed to convert.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// Failures returns the outcomes of files that failed to convert.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	return lo.Filter(r.Files, func(o FileOutcome, _ int) bool {
		return o.Error != nil && !o.Skipped
	})
}

// Converted returns the outcomes that produced a document.
func (r *Result) Converted() []FileOutcome {
	if r == nil {
		return nil
	}
	return lo.Filter(r.Files, func(o FileOutcome, _ int) bool {
		return o.Result != nil
	})
}

func newStats() Stats {
	return Stats{NodesByElem: make(map[string]int)}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	if outcome.Error != nil && errors.Is(outcome.Error, convert.ErrSourceChanged) {
		outcome.Skipped = true
	}
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Skipped:
		r.Stats.FilesSkipped++
		return
	case outcome.Error != nil:
		r.Stats.FilesFailed++
		return
	case outcome.Result == nil:
		return
	}

	r.Stats.FilesConverted++
	for elem, n := range mdast.Count(outcome.Result.Root) {
		r.Stats.Nodes += n
		r.Stats.NodesByElem[elem.String()] += n
	}
}
