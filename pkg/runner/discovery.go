package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// ErrInvalidPattern is returned when an exclude glob does not compile.
var ErrInvalidPattern = errors.New("invalid ignore pattern")

// Discover finds Markdown files under opts.Paths. It returns a sorted,
// de-duplicated list of absolute file paths. Hidden files and directories
// are skipped while walking; explicitly named files are not.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := newMatcher(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	w := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		excludes:   excludes,
		follow:     opts.FollowSymlinks,
	}

	var files []string
	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			found, err := w.walk(absPath)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}

		if w.matchesFile(absPath) {
			files = append(files, absPath)
		}
	}

	files = lo.Uniq(files)
	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type walker struct {
	ctx        context.Context //nolint:containedctx // Scoped to one Discover call.
	workDir    string
	extensions []string
	excludes   *matcher
	follow     bool
}

func (w *walker) walk(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && isHidden(entry.Name()) {
				return filepath.SkipDir
			}
			if path != root && w.excludes.match(w.rel(path), true) {
				return filepath.SkipDir
			}
			return nil
		}

		if isHidden(entry.Name()) {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, ok := w.symlinkTarget(path)
			if !ok {
				return nil
			}
			if target.IsDir() {
				if !w.follow || w.excludes.match(w.rel(path), true) {
					return nil
				}
				realPath, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // Broken links are skipped.
				}
				sub, err := w.walk(realPath)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if w.matchesFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func (w *walker) symlinkTarget(path string) (fs.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return info, true
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *walker) matchesFile(path string) bool {
	if !hasMatchingExtension(path, w.extensions) {
		return false
	}
	return !w.excludes.match(w.rel(path), false)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func hasMatchingExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// matcher holds compiled exclude patterns.
type matcher struct {
	paths []glob.Glob // matched against the slash-separated relative path
	names []glob.Glob // patterns without a separator, also matched against the base name
}

func newMatcher(patterns []string) (*matcher, error) {
	m := &matcher{}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}
		m.paths = append(m.paths, g)

		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			// "**/x" also matches a top-level "x".
			if g, err := glob.Compile(rest, '/'); err == nil {
				m.paths = append(m.paths, g)
			}
		}
		if !strings.Contains(pattern, "/") {
			m.names = append(m.names, g)
		}
	}
	return m, nil
}

// match reports whether rel is excluded. Directories also match patterns
// for their contents, so "vendor/**" excludes the vendor directory itself.
func (m *matcher) match(rel string, isDir bool) bool {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}

	for _, g := range m.paths {
		if g.Match(rel) || (isDir && g.Match(rel+"/")) {
			return true
		}
	}
	for _, g := range m.names {
		if g.Match(base) {
			return true
		}
	}
	return false
}
