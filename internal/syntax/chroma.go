package syntax

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/gridedit/internal/editor"
	"github.com/kobzarvs/gridedit/internal/logger"
)

// ThemeStyle makes a Chroma highlighter colour tokens with the editor
// theme instead of a chroma style.
const ThemeStyle = "theme"

// Chroma highlights with a chroma lexer. Tokens are mapped onto the same
// kinds the tree-sitter queries produce; colours come either from the
// editor theme or from a named chroma style.
type Chroma struct {
	lexer chroma.Lexer
	style *chroma.Style
	theme *Theme
}

// NewChroma picks the lexer by name, falling back to the file name. It
// reports false when neither identifies a lexer.
func NewChroma(name, path, styleName string, theme *Theme) (*Chroma, bool) {
	var lexer chroma.Lexer
	if name != "" {
		lexer = lexers.Get(name)
	}
	if lexer == nil && path != "" {
		lexer = lexers.Match(path)
	}
	if lexer == nil {
		return nil, false
	}
	c := &Chroma{lexer: chroma.Coalesce(lexer), theme: theme}
	if styleName != "" && styleName != ThemeStyle {
		c.style = styles.Get(styleName)
	}
	return c, true
}

func (c *Chroma) Lexer() string { return c.lexer.Config().Name }

func (c *Chroma) Begin(lines []string) editor.LineHighlighter {
	source := strings.Join(lines, "\n")
	if len(source) > maxHighlightBytes {
		return plainLines{theme: c.theme}
	}
	it, err := c.lexer.Tokenise(nil, source)
	if err != nil {
		logger.Warn("chroma tokenise failed", "lexer", c.Lexer(), "error", err)
		return plainLines{theme: c.theme}
	}
	return &chromaLines{c: c, rows: chroma.SplitTokensIntoLines(it.Tokens())}
}

type chromaLines struct {
	c    *Chroma
	rows [][]chroma.Token
}

func (l *chromaLines) HighlightLine(row int, line string) []editor.Span {
	if line == "" {
		return nil
	}
	if row >= len(l.rows) {
		return l.c.theme.spans(line, nil)
	}
	var out []editor.Span
	var b strings.Builder
	for _, tok := range l.rows[row] {
		text := strings.TrimRight(tok.Value, "\n")
		if text == "" {
			continue
		}
		b.WriteString(text)
		span := l.c.span(tok.Type, text)
		if n := len(out); n > 0 && out[n-1].Kind == span.Kind && out[n-1].Style == span.Style {
			out[n-1].Text += text
			continue
		}
		out = append(out, span)
	}
	// A lexer that rewrote the text would misplace every later column.
	if b.String() != line {
		return l.c.theme.spans(line, nil)
	}
	return out
}

func (c *Chroma) span(tt chroma.TokenType, text string) editor.Span {
	kind := chromaKind(tt)
	style, ok := c.theme.Style(kind)
	if !ok {
		kind = ""
	}
	if c.style != nil {
		style = chromaStyle(c.theme.Default, c.style.Get(tt))
	}
	return editor.Span{Kind: kind, Style: style, Text: text}
}

func chromaKind(tt chroma.TokenType) string {
	switch {
	case tt.InCategory(chroma.Comment):
		return "comment"
	case tt.InSubCategory(chroma.LiteralString):
		return "string"
	case tt.InSubCategory(chroma.LiteralNumber):
		return "number"
	case tt == chroma.KeywordConstant, tt == chroma.NameConstant:
		return "constant"
	case tt == chroma.KeywordType, tt == chroma.NameClass:
		return "type"
	case tt.InCategory(chroma.Keyword):
		return "keyword"
	case tt == chroma.NameBuiltin, tt == chroma.NameBuiltinPseudo:
		return "builtin"
	case tt == chroma.NameFunction, tt == chroma.NameFunctionMagic:
		return "function"
	case tt == chroma.NameAttribute, tt == chroma.NameTag, tt == chroma.NameProperty:
		return "field"
	case tt == chroma.NameVariable, tt == chroma.NameVariableGlobal, tt == chroma.NameVariableInstance:
		return "variable"
	case tt.InCategory(chroma.Operator):
		return "operator"
	case tt == chroma.Punctuation:
		return "punctuation"
	default:
		return ""
	}
}

func chromaStyle(base tcell.Style, e chroma.StyleEntry) tcell.Style {
	s := base
	if e.Colour.IsSet() {
		s = s.Foreground(tcell.NewRGBColor(int32(e.Colour.Red()), int32(e.Colour.Green()), int32(e.Colour.Blue())))
	}
	if e.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if e.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	if e.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	return s
}
