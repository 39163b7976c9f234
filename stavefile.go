//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"fz":  Bench.Fuzz,
	"fzf": Bench.Fast,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	Bench st.Namespace
)

// Build compiles bin/mdtree with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir("bin/mdtree", "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/mdtree is up to date")
		return nil
	}
	fmt.Println("Building mdtree...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/mdtree", "./cmd/mdtree")
}

// Check formats, vets, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Vet, Lint.Default, Test.Default)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs mdtree to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing mdtree...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/mdtree")
}

// smokeDoc exercises every block container and the common inline spans.
const smokeDoc = "# Smoke\n\n> quoted *em* and [ref]\n\n- one\n- **two**\n\n| a | b |\n|---|:-:|\n| 1 | 2 |\n\n[ref]: /docs\n"

// Smoke builds the binary and round-trips a document through tokens and ast.
func Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "mdtree-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	doc := filepath.Join(dir, "smoke.md")
	if err := os.WriteFile(doc, []byte(smokeDoc), 0o600); err != nil {
		return err
	}
	tokens, err := sh.Output("bin/mdtree", "tokens", doc)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}
	tokensPath := filepath.Join(dir, "smoke.json")
	if err := os.WriteFile(tokensPath, []byte(tokens), 0o600); err != nil {
		return err
	}
	return sh.RunV("bin/mdtree", "--color", "never", "ast", "--tokens", tokensPath, "--format", "tree")
}

// Default runs all tests through gotestsum with the race detector.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Core runs only the parser packages, without race detection.
func (Test) Core() error {
	return sh.RunV("go", "tool", "gotestsum", "-f", "testname", "--",
		"./pkg/token/...", "./pkg/block/...", "./pkg/inline/...", "./pkg/mdast/...")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Default runs every benchmark.
func (Bench) Default() error {
	fmt.Println("Running benchmarks...")
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Lexer benchmarks inline lexing and whole-document conversion, which
// should grow linearly with input size.
func (Bench) Lexer() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=^(BenchmarkOutput|BenchmarkConvert)", "-benchmem",
		"./pkg/inline", "./pkg/convert")
}

// fuzzTargets lists the fuzz tests run by Bench.Fuzz, by package.
//
//nolint:gochecknoglobals // Read-only table.
var fuzzTargets = []struct{ pkg, name string }{
	{"./pkg/inline", "FuzzOutput"},
	{"./pkg/convert", "FuzzConvert"},
	{"./pkg/fsutil", "FuzzWriteAtomicReadFile"},
}

// Fuzz runs each fuzz test for FUZZTIME (default 30s).
func (Bench) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	for _, ft := range fuzzTargets {
		fmt.Printf("Fuzzing %s %s for %s...\n", ft.pkg, ft.name, fuzzTime)
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+ft.name+"$", "-fuzztime="+fuzzTime, ft.pkg); err != nil {
			return fmt.Errorf("fuzz %s: %w", ft.name, err)
		}
	}
	return nil
}

// Fast runs each fuzz test briefly.
func (Bench) Fast() error {
	return sh.RunWithV(map[string]string{"FUZZTIME": "5s"}, "stave", "bench:fuzz")
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects main.version, main.commit and main.date.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
