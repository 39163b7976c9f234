package runner_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yaklabco/mdtree/pkg/convert"
	"github.com/yaklabco/mdtree/pkg/runner"
)

func newRunner(t *testing.T) *runner.Runner {
	t.Helper()
	return runner.New(convert.New(convert.DefaultOptions()))
}

func TestNew(t *testing.T) {
	t.Parallel()

	conv := convert.New(convert.DefaultOptions())
	r := runner.New(conv)
	if r.Converter != conv {
		t.Error("New() did not keep converter")
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.RunID == "" {
		t.Error("expected run ID")
	}
	if len(result.Files) != 0 {
		t.Errorf("expected no files, got %d", len(result.Files))
	}
	if result.HasFailures() {
		t.Error("expected no failures")
	}
}

func TestRunner_Run_MultipleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.md":      "# A\n\nText with *em*.\n",
		"b.md":      "- one\n- two\n",
		"docs/c.md": "```go\nx := 1\n```\n",
	})

	result, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := len(result.Files); got != 3 {
		t.Fatalf("expected 3 outcomes, got %d", got)
	}
	want := abs(dir, "a.md", "b.md", "docs/c.md")
	for i, outcome := range result.Files {
		if outcome.Path != want[i] {
			t.Errorf("Files[%d].Path = %s, want %s", i, outcome.Path, want[i])
		}
		if outcome.Error != nil {
			t.Errorf("Files[%d].Error = %v", i, outcome.Error)
		}
		if outcome.Result == nil || outcome.Result.Root == nil {
			t.Errorf("Files[%d] has no tree", i)
		}
	}

	stats := result.Stats
	if stats.FilesDiscovered != 3 || stats.FilesConverted != 3 || stats.FilesFailed != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.NodesByElem["markdown"] != 3 {
		t.Errorf("expected 3 documents, got %d", stats.NodesByElem["markdown"])
	}
	if stats.NodesByElem["heading"] != 1 || stats.NodesByElem["listitem"] != 2 || stats.NodesByElem["code"] != 1 {
		t.Errorf("unexpected node counts: %v", stats.NodesByElem)
	}

	total := 0
	for _, n := range stats.NodesByElem {
		total += n
	}
	if stats.Nodes != total {
		t.Errorf("Nodes = %d, want %d", stats.Nodes, total)
	}
}

func TestRunner_Run_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"deep.md": "> > > > > too deep\n",
		"ok.md":   "fine\n",
	})

	opts := convert.DefaultOptions()
	opts.Parse.MaxDepth = 2
	r := runner.New(convert.New(opts))

	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasFailures() {
		t.Fatal("expected failures")
	}
	failures := result.Failures()
	if len(failures) != 1 || failures[0].Path != abs(dir, "deep.md")[0] {
		t.Fatalf("unexpected failures: %+v", failures)
	}
	if !errors.Is(failures[0].Error, convert.ErrParse) {
		t.Errorf("expected ErrParse, got %v", failures[0].Error)
	}

	converted := result.Converted()
	if len(converted) != 1 || converted[0].Path != abs(dir, "ok.md")[0] {
		t.Errorf("unexpected converted outcomes: %+v", converted)
	}
	if result.Stats.FilesFailed != 1 || result.Stats.FilesConverted != 1 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("doc%02d.md", i)] = fmt.Sprintf("# Doc %d\n\n%s\n", i, "para **bold**")
	}
	writeFiles(t, dir, files)

	r := newRunner(t)

	serial, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	if err != nil {
		t.Fatalf("serial Run() error = %v", err)
	}
	parallel, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	if err != nil {
		t.Fatalf("parallel Run() error = %v", err)
	}

	if len(serial.Files) != len(parallel.Files) {
		t.Fatalf("file counts differ: %d vs %d", len(serial.Files), len(parallel.Files))
	}
	for i := range serial.Files {
		if serial.Files[i].Path != parallel.Files[i].Path {
			t.Errorf("order differs at %d: %s vs %s", i, serial.Files[i].Path, parallel.Files[i].Path)
		}
	}
	if serial.Stats.Nodes != parallel.Stats.Nodes {
		t.Errorf("node totals differ: %d vs %d", serial.Stats.Nodes, parallel.Stats.Nodes)
	}
	if serial.RunID == parallel.RunID {
		t.Error("expected distinct run IDs")
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t).Run(ctx, runner.Options{WorkingDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestResult_HasFailures(t *testing.T) {
	t.Parallel()

	var nilResult *runner.Result
	if nilResult.HasFailures() {
		t.Error("nil result should not have failures")
	}
	if nilResult.Failures() != nil {
		t.Error("nil result should have no failure list")
	}

	result := &runner.Result{Stats: runner.Stats{FilesFailed: 1}}
	if !result.HasFailures() {
		t.Error("expected failures")
	}
}
