package syntax

import (
	"regexp"
	"strings"

	"github.com/kobzarvs/gridedit/internal/editor"
)

var (
	jsonString = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	jsonNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`)
	jsonBool   = regexp.MustCompile(`\b(true|false)\b`)
	jsonNull   = regexp.MustCompile(`\bnull\b`)

	gitComment = regexp.MustCompile(`^#.*`)
	gitNegate  = regexp.MustCompile(`^!`)
	gitGlob    = regexp.MustCompile(`[*?]|\[.+?\]`)
)

var regexRules = map[string]func(string) []capture{
	"json":      jsonCaptures,
	"gitignore": gitignoreCaptures,
}

// Regex highlights languages that have no grammar, one line at a time.
type Regex struct {
	theme *Theme
	rules func(string) []capture
}

func NewRegex(lang string, theme *Theme) (*Regex, bool) {
	rules, ok := regexRules[lang]
	if !ok {
		return nil, false
	}
	return &Regex{theme: theme, rules: rules}, true
}

func (r *Regex) Begin([]string) editor.LineHighlighter { return r }

func (r *Regex) HighlightLine(_ int, line string) []editor.Span {
	return r.theme.spans(line, r.rules(line))
}

// outsideString reports whether byte offset i of line is outside a JSON
// string literal.
func outsideString(line string, i int) bool {
	before := line[:i]
	return (strings.Count(before, `"`)-strings.Count(before, `\"`))%2 == 0
}

func jsonCaptures(line string) []capture {
	var caps []capture
	for _, loc := range jsonString.FindAllStringIndex(line, -1) {
		kind := "string"
		if rest := strings.TrimLeft(line[loc[1]:], " \t"); strings.HasPrefix(rest, ":") {
			kind = "field"
		}
		caps = append(caps, capture{start: loc[0], end: loc[1], kind: kind})
	}
	for _, loc := range jsonNumber.FindAllStringIndex(line, -1) {
		if outsideString(line, loc[0]) {
			caps = append(caps, capture{start: loc[0], end: loc[1], kind: "number"})
		}
	}
	for _, re := range []*regexp.Regexp{jsonBool, jsonNull} {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			if outsideString(line, loc[0]) {
				caps = append(caps, capture{start: loc[0], end: loc[1], kind: "constant"})
			}
		}
	}
	return caps
}

func gitignoreCaptures(line string) []capture {
	if line == "" {
		return nil
	}
	if gitComment.MatchString(line) {
		return []capture{{start: 0, end: len(line), kind: "comment"}}
	}
	var caps []capture
	if gitNegate.MatchString(line) {
		caps = append(caps, capture{start: 0, end: 1, kind: "keyword"})
	}
	for _, loc := range gitGlob.FindAllStringIndex(line, -1) {
		caps = append(caps, capture{start: loc[0], end: loc[1], kind: "operator"})
	}
	return caps
}
