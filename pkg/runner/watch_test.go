package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/yaklabco/mdtree/pkg/runner"
)

const watchTimeout = 5 * time.Second

// startWatch runs a watcher in the background and returns a channel of
// batches plus a function that stops it and returns Run's error.
func startWatch(t *testing.T, opts runner.Options) (<-chan []string, func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	w, err := runner.NewWatcher(ctx, opts, 20*time.Millisecond)
	if err != nil {
		cancel()
		t.Fatalf("NewWatcher() error = %v", err)
	}

	batches := make(chan []string, 64)
	fn := func(_ context.Context, paths []string) error {
		batches <- paths
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, fn) }()

	stop := sync.OnceValue(func() error {
		cancel()
		err := <-done
		_ = w.Close()
		return err
	})
	t.Cleanup(func() { _ = stop() })
	return batches, stop
}

// collect gathers batched paths until every wanted path was seen.
func collect(t *testing.T, batches <-chan []string, want ...string) map[string]bool {
	t.Helper()

	seen := make(map[string]bool)
	deadline := time.After(watchTimeout)
	for {
		if !slices.ContainsFunc(want, func(p string) bool { return !seen[p] }) {
			return seen
		}
		select {
		case batch := <-batches:
			if !slices.IsSorted(batch) {
				t.Errorf("batch not sorted: %v", batch)
			}
			for _, p := range batch {
				seen[p] = true
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v, saw %v", want, seen)
		}
	}
}

func TestWatcher_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.md":          "# A\n",
		"vendor/v.md":   "v\n",
		".hidden/h.md":  "h\n",
		"docs/keep.txt": "x\n",
	})

	batches, stop := startWatch(t, runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"vendor/**"}})

	writeFiles(t, dir, map[string]string{
		"a.md":          "# A changed\n",
		"b.md":          "new\n",
		"notes.txt":     "ignored\n",
		"vendor/v.md":   "ignored\n",
		".hidden/h.md":  "ignored\n",
		"sub/deep/d.md": "new dir\n",
	})

	seen := collect(t, batches, abs(dir, "a.md", "b.md", "sub/deep/d.md")...)
	for _, p := range abs(dir, "notes.txt", "vendor/v.md", ".hidden/h.md") {
		if seen[p] {
			t.Errorf("unexpected change reported for %s", p)
		}
	}

	if err := stop(); err != nil {
		t.Errorf("Run() error = %v, want nil on cancellation", err)
	}
}

func TestWatcher_NamedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "a\n", "other.md": "o\n"})

	batches, stop := startWatch(t, runner.Options{WorkingDir: dir, Paths: []string{"a.md"}})

	writeFiles(t, dir, map[string]string{"other.md": "changed\n", "a.md": "changed\n"})

	seen := collect(t, batches, abs(dir, "a.md")...)
	if seen[filepath.Join(dir, "other.md")] {
		t.Error("change to unnamed file was reported")
	}
	if err := stop(); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestWatcher_RemovedFilesAreDropped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"keep.md": "k\n"})

	batches, stop := startWatch(t, runner.Options{WorkingDir: dir})

	writeFiles(t, dir, map[string]string{"gone.md": "g\n"})
	if err := os.Remove(filepath.Join(dir, "gone.md")); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, dir, map[string]string{"keep.md": "k2\n"})

	seen := collect(t, batches, abs(dir, "keep.md")...)
	if seen[filepath.Join(dir, "gone.md")] {
		t.Error("removed file was reported")
	}
	_ = stop()
}

func TestWatcher_CallbackError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	errStop := errors.New("stop watching")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := runner.NewWatcher(ctx, runner.Options{WorkingDir: dir}, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context, []string) error { return errStop })
	}()

	writeFiles(t, dir, map[string]string{"a.md": "a\n"})

	select {
	case err := <-done:
		if !errors.Is(err, errStop) {
			t.Errorf("Run() error = %v, want %v", err, errStop)
		}
	case <-time.After(watchTimeout):
		t.Fatal("Run() did not return after callback error")
	}
}

func TestNewWatcher_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := runner.NewWatcher(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"missing"}}, 0); err == nil {
		t.Error("expected error for missing path")
	}

	_, err := runner.NewWatcher(context.Background(), runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"[unclosed"}}, 0)
	if !errors.Is(err, runner.ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}
