// Package langdetect guesses the language of a code block that has no
// info string. Guesses feed the lang field of code tokens; an unsure
// guess yields no language at all rather than a generic one.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// probe recognizes one language from highly indicative content.
type probe struct {
	lang  string
	match func(code, trimmed []byte) bool
}

// probes run in order before the statistical classifier.
//
//nolint:gochecknoglobals // Read-only table.
var probes = []probe{
	{"go", func(_, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{"python", func(code, _ []byte) bool {
		s := string(code)
		return (strings.Contains(s, "def ") && strings.Contains(s, "):")) ||
			strings.Contains(s, "__name__")
	}},
	{"html", func(_, trimmed []byte) bool {
		lower := bytes.ToLower(trimmed)
		return bytes.HasPrefix(lower, []byte("<!doctype html")) ||
			bytes.Contains(lower, []byte("<html")) ||
			bytes.Contains(lower, []byte("<body>"))
	}},
	{"json", func(_, trimmed []byte) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`":`))
	}},
	{"dockerfile", func(code, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) &&
			(bytes.Contains(code, []byte("\nRUN ")) || bytes.Contains(code, []byte("\nCOPY ")))
	}},
	{"sql", func(_, trimmed []byte) bool {
		upper := strings.ToUpper(string(trimmed))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(code, _ []byte) bool {
		return bytes.Contains(code, []byte("fn main()")) || bytes.Contains(code, []byte("let mut "))
	}},
	{"yaml", func(code, _ []byte) bool {
		return yamlPairs(code) >= 2
	}},
}

// classifierCandidates limits the classifier to languages common in
// documentation.
//
//nolint:gochecknoglobals // Read-only table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// Detect returns a fence tag for code and true, or "" and false when no
// language can be determined with confidence.
func Detect(code []byte) (string, bool) {
	trimmed := bytes.TrimSpace(code)
	if len(trimmed) == 0 {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(code); safe && lang != "" {
		return fenceTag(lang), true
	}

	for _, p := range probes {
		if p.match(code, trimmed) {
			return p.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(code, classifierCandidates); safe && lang != "" {
		return fenceTag(lang), true
	}

	return "", false
}

// yamlPairs counts lines that look like "key: value" or "- item".
func yamlPairs(code []byte) int {
	n := 0
	for line := range bytes.SplitSeq(code, []byte("\n")) {
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0, line[0] == '#':
		case bytes.HasPrefix(line, []byte("- ")):
			n++
		case bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "(){};"):
			n++
		}
	}
	return n
}

// fenceTag converts a go-enry language name to a fence info tag.
func fenceTag(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	default:
		return strings.ToLower(lang)
	}
}
