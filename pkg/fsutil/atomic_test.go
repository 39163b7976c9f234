package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "docs", "guide.json")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte(`{}`), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(got))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
	})

	t.Run("overwrites without leaving temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o600))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "x"), nil, 0)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.yaml")
	ctx := context.Background()

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a: 1\n"), 0)
	require.NoError(t, err)
	assert.True(t, written, "missing file is written")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a: 1\n"), 0)
	require.NoError(t, err)
	assert.False(t, written, "identical content is skipped")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a: 2\n"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	base := filepath.FromSlash("/work/site")
	out := filepath.FromSlash("/tmp/out")

	tests := []struct {
		name   string
		source string
		ext    string
		want   string
	}{
		{name: "top level", source: "/work/site/README.md", ext: ".json", want: "/tmp/out/README.json"},
		{name: "nested", source: "/work/site/docs/guide.markdown", ext: ".yaml", want: "/tmp/out/docs/guide.yaml"},
		{name: "outside base", source: "/elsewhere/notes.md", ext: ".txt", want: "/tmp/out/notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fsutil.OutputPath(out, base, filepath.FromSlash(tt.source), tt.ext)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}
