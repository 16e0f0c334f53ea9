// Package syntax provides editor.Highlighter implementations backed by
// tree-sitter grammars, chroma lexers and a few regex rule sets.
package syntax

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/gridedit/internal/config"
	"github.com/kobzarvs/gridedit/internal/editor"
)

// Theme holds the resolved tcell styles for the editor surface and for
// every highlight kind.
type Theme struct {
	Default          tcell.Style
	Selection        tcell.Style
	Statusline       tcell.Style
	LineNumber       tcell.Style
	LineNumberActive tcell.Style

	kinds map[string]tcell.Style
}

func NewTheme(t config.Theme) *Theme {
	fg := parseColor(t.Foreground, tcell.ColorReset)
	bg := parseColor(t.Background, tcell.ColorReset)
	base := tcell.StyleDefault.Foreground(fg).Background(bg)
	fgStyle := func(name string) tcell.Style {
		return base.Foreground(parseColor(name, fg))
	}

	return &Theme{
		Default: base,
		Selection: tcell.StyleDefault.
			Foreground(parseColor(t.SelectionForeground, fg)).
			Background(parseColor(t.SelectionBackground, tcell.ColorNavy)),
		Statusline: tcell.StyleDefault.
			Foreground(parseColor(t.StatuslineForeground, fg)).
			Background(parseColor(t.StatuslineBackground, bg)),
		LineNumber:       fgStyle(t.LineNumberForeground),
		LineNumberActive: fgStyle(t.LineNumberActiveForeground),
		kinds: map[string]tcell.Style{
			"keyword":     fgStyle(t.SyntaxKeyword),
			"string":      fgStyle(t.SyntaxString),
			"comment":     fgStyle(t.SyntaxComment),
			"type":        fgStyle(t.SyntaxType),
			"function":    fgStyle(t.SyntaxFunction),
			"number":      fgStyle(t.SyntaxNumber),
			"constant":    fgStyle(t.SyntaxConstant),
			"operator":    fgStyle(t.SyntaxOperator),
			"punctuation": fgStyle(t.SyntaxPunctuation),
			"field":       fgStyle(t.SyntaxField),
			"builtin":     fgStyle(t.SyntaxBuiltin),
			"variable":    fgStyle(t.SyntaxVariable),
			"parameter":   fgStyle(t.SyntaxParameter),
		},
	}
}

// Style returns the style for a highlight kind, or the default style and
// false for kinds the theme does not know.
func (t *Theme) Style(kind string) (tcell.Style, bool) {
	if s, ok := t.kinds[kind]; ok {
		return s, true
	}
	return t.Default, false
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

func highlightPriority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case "keyword":
		return 5
	case "constant", "builtin":
		return 4
	case "parameter", "type", "function", "number":
		return 3
	case "field", "variable":
		return 2
	case "operator", "punctuation":
		return 1
	default:
		return 0
	}
}

// capture is a highlighted byte range [start, end) of one line.
type capture struct {
	start int
	end   int
	kind  string
}

func kindAt(caps []capture, offset int) string {
	best := ""
	bestPriority := 0
	for _, c := range caps {
		if offset < c.start || offset >= c.end {
			continue
		}
		if p := highlightPriority(c.kind); p > bestPriority {
			bestPriority = p
			best = c.kind
		}
	}
	return best
}

// spans cuts line into runs of equal kind. Where captures overlap the
// higher-priority kind wins.
func (t *Theme) spans(line string, caps []capture) []editor.Span {
	if line == "" {
		return nil
	}
	if len(caps) == 0 {
		return []editor.Span{{Style: t.Default, Text: line}}
	}
	var out []editor.Span
	runStart := 0
	runKind := kindAt(caps, 0)
	for i := range line {
		kind := kindAt(caps, i)
		if kind != runKind {
			out = append(out, t.span(runKind, line[runStart:i]))
			runStart = i
			runKind = kind
		}
	}
	return append(out, t.span(runKind, line[runStart:]))
}

func (t *Theme) span(kind, text string) editor.Span {
	style, ok := t.Style(kind)
	if !ok {
		kind = ""
	}
	return editor.Span{Kind: kind, Style: style, Text: text}
}

// plainLines renders every line as one default-styled span.
type plainLines struct {
	theme *Theme
}

func (p plainLines) HighlightLine(_ int, line string) []editor.Span {
	return p.theme.spans(line, nil)
}
