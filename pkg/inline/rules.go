package inline

import (
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single rule match. Rules with nested lazy
// quantifiers can backtrack heavily on adversarial input.
const matchTimeout = 2 * time.Second

// grammar is one complete set of inline patterns. A nil pattern disables
// its rule.
type grammar struct {
	escape   *regexp2.Regexp
	autolink *regexp2.Regexp
	url      *regexp2.Regexp
	tag      *regexp2.Regexp
	link     *regexp2.Regexp
	reflink  *regexp2.Regexp
	nolink   *regexp2.Regexp
	strong   *regexp2.Regexp
	em       *regexp2.Regexp
	code     *regexp2.Regexp
	br       *regexp2.Regexp
	del      *regexp2.Regexp
	text     *regexp2.Regexp
}

// Pattern sources. Every pattern is anchored at the cursor, with
// alternations grouped under a single ^ so a miss fails at the first
// position. \z is used instead of $ because $ also matches before a
// trailing newline.
const (
	patEscape    = `^\\([\\` + "`" + `*{}\[\]()#+\-.!_>])`
	patEscapeGFM = `^\\([\\` + "`" + `*{}\[\]()#+\-.!_>~|])`
	patAutolink  = `^<([^ >]+(@|:/)[^ >]+)>`
	patURL       = `^(https?://[^\s<]+[^<.,:;"')\]\s])`
	patTag       = `^(?:<!--[\s\S]*?-->|</?\w+(?:"[^"]*"|'[^']*'|[^'">])*?>)`

	patInside = `(?:\[[^\]]*\]|[^\[\]]|\](?=[^\[]*\]))*`
	patHref   = `\s*<?([\s\S]*?)>?(?:\s+['"]([\s\S]*?)['"])?\s*`
	patLink   = `^!?\[(` + patInside + `)\]\(` + patHref + `\)`
	patRef    = `^!?\[(` + patInside + `)\]\s*\[([^\]]*)\]`
	patNolink = `^!?\[((?:\[[^\]]*\]|[^\[\]])*)\]`

	patStrong         = `^(?:__([\s\S]+?)__(?!_)|\*\*([\s\S]+?)\*\*(?!\*))`
	patEm             = `^(?:\b_((?:[^_]|__)+?)_\b|\*((?:\*\*|[\s\S])+?)\*(?!\*))`
	patStrongPedantic = `^(?:__(?=\S)([\s\S]*?\S)__(?!_)|\*\*(?=\S)([\s\S]*?\S)\*\*(?!\*))`
	patEmPedantic     = `^(?:_(?=\S)([\s\S]*?\S)_(?!_)|\*(?=\S)([\s\S]*?\S)\*(?!\*))`

	patCode = "^(`+)\\s*([\\s\\S]*?[^`])\\s*\\1(?!`)"

	patBR       = `^ {2,}\n(?!\s*\z)`
	patBRBreaks = `^ *\n(?!\s*\z)`

	patDel = `^~~(?=\S)([\s\S]*?\S)~~`

	patText       = "^[\\s\\S]+?(?=[\\\\<!\\[_*`]| {2,}\\n|\\z)"
	patTextGFM    = "^[\\s\\S]+?(?=[\\\\<!\\[_*`~]|https?://| {2,}\\n|\\z)"
	patTextBreaks = "^[\\s\\S]+?(?=[\\\\<!\\[_*`~]|https?://| *\\n|\\z)"
)

//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var (
	normalGrammar   = newNormalGrammar()
	pedanticGrammar = newPedanticGrammar()
	gfmGrammar      = newGFMGrammar()
	breaksGrammar   = newBreaksGrammar()
)

func newNormalGrammar() *grammar {
	return &grammar{
		escape:   mustCompile(patEscape),
		autolink: mustCompile(patAutolink),
		tag:      mustCompile(patTag),
		link:     mustCompile(patLink),
		reflink:  mustCompile(patRef),
		nolink:   mustCompile(patNolink),
		strong:   mustCompile(patStrong),
		em:       mustCompile(patEm),
		code:     mustCompile(patCode),
		br:       mustCompile(patBR),
		text:     mustCompile(patText),
	}
}

func newPedanticGrammar() *grammar {
	g := newNormalGrammar()
	g.strong = mustCompile(patStrongPedantic)
	g.em = mustCompile(patEmPedantic)
	return g
}

func newGFMGrammar() *grammar {
	g := newNormalGrammar()
	g.escape = mustCompile(patEscapeGFM)
	g.url = mustCompile(patURL)
	g.del = mustCompile(patDel)
	g.text = mustCompile(patTextGFM)
	return g
}

func newBreaksGrammar() *grammar {
	g := newGFMGrammar()
	g.br = mustCompile(patBRBreaks)
	g.text = mustCompile(patTextBreaks)
	return g
}

// grammarFor picks the pattern set for the options. GFM takes precedence
// over pedantic.
func grammarFor(opts Options) *grammar {
	switch {
	case opts.GFM && opts.Breaks:
		return breaksGrammar
	case opts.GFM:
		return gfmGrammar
	case opts.Pedantic:
		return pedanticGrammar
	default:
		return normalGrammar
	}
}

func mustCompile(pattern string) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, regexp2.None)
	re.MatchTimeout = matchTimeout
	return re
}

// captures holds the text of each group of a match; index 0 is the whole
// match. Groups that did not participate are empty.
type captures []string

// either returns the first non-empty group among idx, mirroring
// alternations whose branches capture into different groups.
func (c captures) either(idx ...int) string {
	for _, i := range idx {
		if i < len(c) && c[i] != "" {
			return c[i]
		}
	}
	return ""
}

// exec matches re against the head of src. It returns nil when the rule
// does not match.
func exec(re *regexp2.Regexp, src []rune) (captures, int, error) {
	m, err := re.FindRunesMatch(src)
	if err != nil {
		return nil, 0, err
	}
	if m == nil || m.Index != 0 || m.Length == 0 {
		return nil, 0, nil
	}

	groups := m.Groups()
	caps := make(captures, len(groups))
	for i := range groups {
		if len(groups[i].Captures) > 0 {
			caps[i] = groups[i].String()
		}
	}
	return caps, m.Length, nil
}
