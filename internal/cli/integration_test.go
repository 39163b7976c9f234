package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/internal/cli"
	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/reporter"
	"github.com/yaklabco/mdtree/pkg/token"
)

const (
	sampleDoc = "# Title\n\nSome *emphasis* and a [link](https://example.com).\n"
	tableDoc  = "| a | b |\n|---|---|\n| 1 | 2 |\n"
)

type cmdOutput struct {
	stdout string
	stderr string
}

// execute runs the root command with args and returns captured output.
func execute(t *testing.T, stdin string, args ...string) (cmdOutput, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return cmdOutput{stdout: out.String(), stderr: errOut.String()}, err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeRun(t *testing.T, stdout string) reporter.RunDocument {
	t.Helper()

	var doc reporter.RunDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	return doc
}

func TestIntegration_ParseJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "doc.md", sampleDoc)
	writeFile(t, dir, "notes.txt", "not markdown")

	out, err := execute(t, "", "-C", dir, "parse")
	require.NoError(t, err)

	doc := decodeRun(t, out.stdout)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "doc.md", doc.Files[0].Path)
	assert.NotEmpty(t, doc.RunID)

	root := doc.Files[0].AST
	require.NotNil(t, root)
	headings := mdast.FindByElem(root, mdast.ElemHeading)
	require.Len(t, headings, 1)
	assert.Equal(t, 1, headings[0].Opts.Level)

	links := mdast.FindByElem(root, mdast.ElemLink)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com", links[0].Opts.Href)

	assert.Contains(t, out.stderr, "1 file converted")
}

func TestIntegration_ParseTree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "doc.md", "# Title\n")

	out, err := execute(t, "", "-C", dir, "--color", "never", "parse", "doc.md", "--format", "tree", "--no-summary")
	require.NoError(t, err)
	assert.Equal(t, "markdown\n  heading {level=1 raw=\"Title\"}\n    \"Title\"\n", out.stdout)
}

func TestIntegration_Flavor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "table.md", tableDoc)

	tests := []struct {
		name   string
		args   []string
		tables int
	}{
		{name: "default gfm", tables: 1},
		{name: "gfm disabled", args: []string{"--gfm=false"}, tables: 0},
		{name: "commonmark flavor", args: []string{"--flavor", "commonmark"}, tables: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"-C", dir, "parse", "table.md"}, tt.args...)
			out, err := execute(t, "", args...)
			require.NoError(t, err)

			doc := decodeRun(t, out.stdout)
			require.Len(t, doc.Files, 1)
			assert.Len(t, mdast.FindByElem(doc.Files[0].AST, mdast.ElemTable), tt.tables)
		})
	}
}

func TestIntegration_GFMAndFlavorConflict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "doc.md", sampleDoc)

	_, err := execute(t, "", "-C", dir, "parse", "--gfm", "--flavor", "gfm")
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_ConversionFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "deep.md", "> > > > > deep\n")
	writeFile(t, dir, "ok.md", "fine\n")

	out, err := execute(t, "", "-C", dir, "parse", "--max-depth", "2")
	require.ErrorIs(t, err, cli.ErrConversionFailed)
	assert.Equal(t, cli.ExitConversionErrors, cli.ExitCode(err))

	doc := decodeRun(t, out.stdout)
	require.Len(t, doc.Files, 2)
	assert.Contains(t, doc.Files[0].Error, "too deep")
	assert.Empty(t, doc.Files[1].Error)
	assert.Equal(t, 1, doc.Summary.FilesFailed)
}

func TestIntegration_OutDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "docs/guide.md", sampleDoc)

	out, err := execute(t, "", "-C", dir, "parse", "--format", "yaml", "--out-dir", "build")
	require.NoError(t, err)

	target := filepath.Join("build", "docs", "guide.yaml")
	content, err := os.ReadFile(filepath.Join(dir, target))
	require.NoError(t, err)
	assert.Contains(t, string(content), "elem: markdown")
	assert.Contains(t, out.stdout, "output: ")
	assert.NotContains(t, out.stdout, "elem: markdown")

	_, err = os.Stat(target)
	assert.ErrorIs(t, err, os.ErrNotExist, "relative out dir resolves against -C, not the process directory")
}

func TestIntegration_ProjectConfig(t *testing.T) {
	t.Parallel()

	t.Run("format from config", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, configloader.ProjectConfigName, "output:\n  format: tree\n")
		writeFile(t, dir, "doc.md", "text\n")

		out, err := execute(t, "", "-C", dir, "--color", "never", "parse", "--no-summary")
		require.NoError(t, err)
		assert.Equal(t, "markdown\n  paragraph\n    \"text\"\n", out.stdout)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, configloader.ProjectConfigName, "flavor: markdown-extra\n")
		writeFile(t, dir, "doc.md", "text\n")

		_, err := execute(t, "", "-C", dir, "parse")
		require.ErrorIs(t, err, cli.ErrConfig)
		assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
	})
}

func TestIntegration_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "-C", t.TempDir(), "parse", "--format", "sarif")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "-C", t.TempDir(), "parse", "missing.md")
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestIntegration_TokensThenAST(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "doc.md", "See [docs].\n\n[docs]: /docs \"Docs\"\n")

	out, err := execute(t, "", "-C", dir, "tokens", "doc.md")
	require.NoError(t, err)

	var doc token.Document
	require.NoError(t, json.Unmarshal([]byte(out.stdout), &doc))
	require.NotEmpty(t, doc.Tokens)
	assert.Equal(t, token.Paragraph, doc.Tokens[0].Type)
	ref, ok := doc.Links.Lookup("docs")
	require.True(t, ok)
	assert.Equal(t, "/docs", ref.Href)

	writeFile(t, dir, "tokens.json", out.stdout)

	check := func(t *testing.T, stdout string) {
		t.Helper()

		var fileDoc reporter.FileDocument
		require.NoError(t, json.Unmarshal([]byte(stdout), &fileDoc))
		require.NotNil(t, fileDoc.AST)
		links := mdast.FindByElem(fileDoc.AST, mdast.ElemLink)
		require.Len(t, links, 1)
		assert.Equal(t, "/docs", links[0].Opts.Href)
		assert.Equal(t, "Docs", links[0].Opts.Title)
	}

	t.Run("file", func(t *testing.T) {
		astOut, err := execute(t, "", "-C", dir, "ast", "--tokens", "tokens.json")
		require.NoError(t, err)
		check(t, astOut.stdout)
	})

	t.Run("stdin", func(t *testing.T) {
		astOut, err := execute(t, out.stdout, "-C", dir, "ast", "--tokens", "-")
		require.NoError(t, err)
		check(t, astOut.stdout)
	})
}

func TestIntegration_ASTInvalidTokens(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "{not json", "-C", t.TempDir(), "ast", "--tokens", "-")
	require.ErrorIs(t, err, cli.ErrUsage)

	_, err = execute(t, `{"tokens":[{"type":"footnote"}]}`, "-C", t.TempDir(), "ast", "--tokens", "-")
	require.ErrorIs(t, err, cli.ErrUsage)
	require.ErrorIs(t, err, token.ErrInvalidDocument)
	assert.Contains(t, err.Error(), "/tokens/0/type")

	// Valid against the schema but unbalanced.
	_, err = execute(t, `{"tokens":[{"type":"blockquote_start"}]}`, "-C", t.TempDir(), "ast", "--tokens", "-")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInternalError, cli.ExitCode(err))
}

func TestIntegration_TokensSchema(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "tokens", "--schema")
	require.NoError(t, err)
	assert.JSONEq(t, token.Schema(), out.stdout)

	_, err = execute(t, "", "tokens", "--schema", "doc.md")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	out, err := execute(t, "", "-C", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, configloader.ProjectConfigName)

	path := filepath.Join(dir, configloader.ProjectConfigName)
	require.FileExists(t, path)

	result, err := configloader.Load(context.Background(), configloader.LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, result.LoadedFrom)

	_, err = execute(t, "", "-C", dir, "init")
	require.ErrorIs(t, err, cli.ErrUsage)

	_, err = execute(t, "", "-C", dir, "init", "--force")
	require.NoError(t, err)

	_, err = execute(t, "", "-C", dir, "init", "--format", "toml")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out.stdout, "mdtree")
	assert.Contains(t, out.stdout, "test-version")
	assert.Contains(t, out.stdout, "test-commit")
}

func TestIntegration_DebounceRequiresWatch(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "-C", t.TempDir(), "parse", "--debounce", "1s")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_Watch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"-C", dir, "parse", "--out-dir", "build", "--watch", "--debounce", "20ms"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	first := filepath.Join(dir, "build", "a.json")
	require.Eventually(t, func() bool {
		_, err := os.Stat(first)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond, "initial run output")

	// The watch may start after the initial report; keep touching the file
	// until the new output appears.
	second := filepath.Join(dir, "build", "b.json")
	require.Eventually(t, func() bool {
		if _, err := os.Stat(second); err == nil {
			return true
		}
		_ = os.WriteFile(filepath.Join(dir, "b.md"), []byte("*new*\n"), 0o644)
		return false
	}, 5*time.Second, 50*time.Millisecond, "output for a file created while watching")

	content, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"em"`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
