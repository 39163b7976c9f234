package inline

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

type replacement struct {
	re   *regexp2.Regexp
	with string
}

// smartPunctuation is applied in order; later steps rely on earlier ones
// (closing quotes are whatever opening quotes did not claim).
//
//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var smartPunctuation = []replacement{
	{mustCompile(`---`), "—"},
	{mustCompile(`--`), "–"},
	{mustCompile(`(^|[-—/(\[{"\s])'`), "$1‘"},
	{mustCompile(`'`), "’"},
	{mustCompile(`(^|[-—/(\[{‘\s])"`), "$1“"},
	{mustCompile(`"`), "”"},
	{mustCompile(`\.{3}`), "…"},
}

// smartypants converts straight quotes, dashes and ellipses to their
// typographic forms.
func smartypants(text string) (string, error) {
	out := text
	for _, r := range smartPunctuation {
		var err error
		out, err = r.re.Replace(out, r.with, -1, -1)
		if err != nil {
			return "", fmt.Errorf("smart punctuation: %w", err)
		}
	}
	return out, nil
}

// mangle encodes every character of text as a numeric character
// reference, choosing decimal or hexadecimal form at random per character.
func mangle(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) * 6)
	for _, r := range text {
		sb.WriteString("&#")
		if rand.IntN(2) == 1 {
			sb.WriteByte('x')
			sb.WriteString(strconv.FormatInt(int64(r), 16))
		} else {
			sb.WriteString(strconv.Itoa(int(r)))
		}
		sb.WriteByte(';')
	}
	return sb.String()
}
