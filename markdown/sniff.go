package markdown

import (
	"regexp"
	"strings"
)

// space matches the characters that count as whitespace in the heuristics
// below: ASCII whitespace, the vertical tab and the Unicode space separators.
const space = `[\s\v\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

// Rule is a named heuristic that detects one piece of Markdown syntax.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Patterns is the ordered table of heuristics used by LooksLikeMarkdown. The
// patterns expect "\n" line endings, see NormalizeLineEndings.
var Patterns = []Rule{
	{"heading", regexp.MustCompile(`(?m)^#{1,6}` + space)},
	{"unordered-list", regexp.MustCompile(`(?m)^[-*+]` + space)},
	{"ordered-list", regexp.MustCompile(`(?m)^\d+\.` + space)},
	{"blockquote", regexp.MustCompile(`(?m)^>` + space)},
	{"code-fence", regexp.MustCompile("```")},
	{"bold", regexp.MustCompile(`\*\*[^*]+\*\*`)},
	{"italic", regexp.MustCompile(`\*[^*]+\*`)},
	{"link", regexp.MustCompile(`\[.+\]\(.+\)`)},
	{"horizontal-rule", regexp.MustCompile(`(?m)^---+$`)},
	{"table", regexp.MustCompile(`\|.+\|`)},
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u2028", "\n", "\u2029", "\n")

// NormalizeLineEndings turns every line terminator ("\r\n", "\r", U+2028 and
// U+2029) into "\n", so that line anchors and dots behave the same whatever
// the origin of the pasted text.
func NormalizeLineEndings(text string) string {
	return lineEndings.Replace(text)
}

// LooksLikeMarkdown is a cheap check telling whether a piece of plain text
// is likely to be written in Markdown. It has false positives and false
// negatives: for example "5*3=15" is not detected.
func LooksLikeMarkdown(text string) bool {
	if text == "" {
		return false
	}
	text = NormalizeLineEndings(text)
	for _, rule := range Patterns {
		if rule.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchingPatterns returns the names of all the rules that match the text,
// in table order.
func MatchingPatterns(text string) []string {
	text = NormalizeLineEndings(text)
	var names []string
	for _, rule := range Patterns {
		if rule.Pattern.MatchString(text) {
			names = append(names, rule.Name)
		}
	}
	return names
}
