package token

import (
	"strings"
	"unicode"
)

// LinkRef is the target of a link reference definition.
type LinkRef struct {
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// Links maps normalized labels to their definitions. It is built before
// parsing and only read afterwards.
type Links map[string]LinkRef

// NormalizeLabel lowercases a label and collapses each run of whitespace
// into a single space. Leading and trailing runs are collapsed, not
// trimmed, so "[ foo ]" and "[foo]" are different labels.
func NormalizeLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label))

	inSpace := false
	for _, r := range label {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Add records a definition under the normalized label. The first
// definition of a label wins.
func (l Links) Add(label, href, title string) {
	key := NormalizeLabel(label)
	if _, exists := l[key]; exists {
		return
	}
	l[key] = LinkRef{Href: href, Title: title}
}

// Lookup returns the definition of label, normalizing it first.
func (l Links) Lookup(label string) (LinkRef, bool) {
	ref, ok := l[NormalizeLabel(label)]
	return ref, ok
}
