package syntax

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/gridedit/internal/config"
	"github.com/kobzarvs/gridedit/internal/editor"
	"github.com/kobzarvs/gridedit/internal/textedit"
)

func testTheme() *Theme { return NewTheme(config.Default().Theme) }

func joined(spans []editor.Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func findSpan(spans []editor.Span, text string) (editor.Span, bool) {
	for _, s := range spans {
		if s.Text == text {
			return s, true
		}
	}
	return editor.Span{}, false
}

func assertKind(t *testing.T, spans []editor.Span, text, kind string) {
	t.Helper()
	s, ok := findSpan(spans, text)
	if !ok {
		t.Fatalf("no span %q in %+v", text, spans)
	}
	if s.Kind != kind {
		t.Fatalf("span %q kind = %q, want %q", text, s.Kind, kind)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want tcell.Color
	}{
		{"#FF0000", tcell.NewRGBColor(255, 0, 0)},
		{" #00ff00 ", tcell.NewRGBColor(0, 255, 0)},
		{"", tcell.ColorYellow},
		{"#zzzzzz", tcell.ColorYellow},
		{"default", tcell.ColorDefault},
		{"red", tcell.ColorRed},
		{"not-a-colour", tcell.ColorYellow},
	}
	for _, tc := range cases {
		if got := parseColor(tc.in, tcell.ColorYellow); got != tc.want {
			t.Fatalf("parseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSpansPreferHigherPriority(t *testing.T) {
	theme := testTheme()
	line := `x := "a"`
	spans := theme.spans(line, []capture{
		{start: 0, end: len(line), kind: "variable"},
		{start: 5, end: 8, kind: "string"},
	})
	if len(spans) != 2 {
		t.Fatalf("spans = %+v, want 2", spans)
	}
	assertKind(t, spans, "x := ", "variable")
	assertKind(t, spans, `"a"`, "string")
	want, _ := theme.Style("string")
	if spans[1].Style != want {
		t.Fatalf("string style mismatch")
	}
}

func TestSpansUnknownKindUsesDefault(t *testing.T) {
	theme := testTheme()
	spans := theme.spans("abc", []capture{{start: 0, end: 3, kind: "mystery"}})
	if len(spans) != 1 || spans[0].Kind != "" || spans[0].Style != theme.Default {
		t.Fatalf("spans = %+v, want one default span", spans)
	}
	if spans := theme.spans("", nil); spans != nil {
		t.Fatalf("empty line spans = %+v, want nil", spans)
	}
}

func TestSpansKeepMultibyteRunesWhole(t *testing.T) {
	theme := testTheme()
	line := "文a件"
	spans := theme.spans(line, []capture{{start: 3, end: 4, kind: "keyword"}})
	if joined(spans) != line {
		t.Fatalf("joined = %q, want %q", joined(spans), line)
	}
	assertKind(t, spans, "a", "keyword")
}

func TestRegexJSON(t *testing.T) {
	r, ok := NewRegex("json", testTheme())
	if !ok {
		t.Fatalf("NewRegex(json) ok = false")
	}
	line := `  "k": 12, "v": "x1", "b": true, "n": null`
	spans := r.Begin([]string{line}).HighlightLine(0, line)
	if joined(spans) != line {
		t.Fatalf("joined = %q, want %q", joined(spans), line)
	}
	assertKind(t, spans, `"k"`, "field")
	assertKind(t, spans, "12", "number")
	assertKind(t, spans, `"x1"`, "string")
	assertKind(t, spans, "true", "constant")
	assertKind(t, spans, "null", "constant")
}

func TestRegexGitignore(t *testing.T) {
	r, _ := NewRegex("gitignore", testTheme())
	lh := r.Begin(nil)
	spans := lh.HighlightLine(0, "# build output")
	if len(spans) != 1 || spans[0].Kind != "comment" {
		t.Fatalf("comment spans = %+v", spans)
	}
	spans = lh.HighlightLine(1, "!*.log")
	assertKind(t, spans, "!", "keyword")
	assertKind(t, spans, "*", "operator")
	assertKind(t, spans, ".log", "")

	if _, ok := NewRegex("go", testTheme()); ok {
		t.Fatalf("NewRegex(go) ok = true")
	}
}

func TestTreeSitterGo(t *testing.T) {
	ts, err := NewTreeSitter("go", testTheme())
	if err != nil {
		t.Fatalf("NewTreeSitter error: %v", err)
	}
	defer ts.Close()

	lines := []string{
		"package main",
		"",
		"// hello",
		"func main() {",
		`	s := "文字"`,
		"}",
	}
	lh := ts.Begin(lines)
	out := make([][]editor.Span, len(lines))
	for i, line := range lines {
		out[i] = lh.HighlightLine(i, line)
		if got := joined(out[i]); got != line {
			t.Fatalf("line %d joined = %q, want %q", i, got, line)
		}
	}
	assertKind(t, out[0], "package", "keyword")
	assertKind(t, out[2], "// hello", "comment")
	assertKind(t, out[3], "func", "keyword")
	assertKind(t, out[3], "main", "function")
	assertKind(t, out[4], `"文字"`, "string")
}

func TestTreeSitterMarkdownInline(t *testing.T) {
	ts, err := NewTreeSitter("markdown", testTheme())
	if err != nil {
		t.Fatalf("NewTreeSitter error: %v", err)
	}
	defer ts.Close()

	lines := []string{"# Title", "", "run `make` now"}
	lh := ts.Begin(lines)
	heading := lh.HighlightLine(0, lines[0])
	if len(heading) == 0 || heading[0].Kind != "keyword" {
		t.Fatalf("heading spans = %+v, want keyword first", heading)
	}
	body := lh.HighlightLine(2, lines[2])
	assertKind(t, body, "`make`", "string")
}

func TestTreeSitterUnknownLanguage(t *testing.T) {
	if _, err := NewTreeSitter("cobol", testTheme()); err == nil {
		t.Fatalf("NewTreeSitter(cobol) error = nil")
	}
	if HasTreeSitter("json") {
		t.Fatalf("HasTreeSitter(json) = true")
	}
}

func TestChromaThemeKinds(t *testing.T) {
	c, ok := NewChroma("", "main.go", ThemeStyle, testTheme())
	if !ok {
		t.Fatalf("NewChroma(main.go) ok = false")
	}
	lines := []string{"package main", "func f() {}"}
	lh := c.Begin(lines)
	for i, line := range lines {
		spans := lh.HighlightLine(i, line)
		if got := joined(spans); got != line {
			t.Fatalf("line %d joined = %q, want %q", i, got, line)
		}
	}
	assertKind(t, lh.HighlightLine(0, lines[0]), "package", "keyword")
	assertKind(t, lh.HighlightLine(1, lines[1]), "func", "keyword")
}

func TestChromaNamedStyle(t *testing.T) {
	theme := testTheme()
	c, ok := NewChroma("go", "", "monokai", theme)
	if !ok {
		t.Fatalf("NewChroma(go) ok = false")
	}
	spans := c.Begin([]string{"package main"}).HighlightLine(0, "package main")
	s, found := findSpan(spans, "package")
	if !found {
		t.Fatalf("no package span in %+v", spans)
	}
	if s.Style == theme.Default {
		t.Fatalf("monokai keyword uses the default style")
	}
}

func TestChromaUnknownFile(t *testing.T) {
	if _, ok := NewChroma("", "notes.zzqq", ThemeStyle, testTheme()); ok {
		t.Fatalf("NewChroma(notes.zzqq) ok = true")
	}
}

func TestForFile(t *testing.T) {
	theme := testTheme()
	langs := config.DefaultLanguages()
	opts := config.Default().Editor

	if _, ok := ForFile("main.go", langs, opts, theme).(*TreeSitter); !ok {
		t.Fatalf("main.go highlighter is not tree-sitter")
	}
	if _, ok := ForFile("package.json", langs, opts, theme).(*Regex); !ok {
		t.Fatalf("package.json highlighter is not regex")
	}
	if _, ok := ForFile("script.py", langs, opts, theme).(*Chroma); !ok {
		t.Fatalf("script.py highlighter is not chroma")
	}
	if h := ForFile("notes.zzqq", langs, opts, theme); h != nil {
		t.Fatalf("notes.zzqq highlighter = %T, want nil", h)
	}

	opts.Highlighter = config.HighlighterChroma
	if _, ok := ForFile("main.go", langs, opts, theme).(*Chroma); !ok {
		t.Fatalf("chroma preference ignored")
	}
	opts.Highlighter = config.HighlighterNone
	if h := ForFile("main.go", langs, opts, theme); h != nil {
		t.Fatalf("none preference = %T, want nil", h)
	}
}

func TestEditorRehighlightsThroughTreeSitter(t *testing.T) {
	ts, err := NewTreeSitter("go", testTheme())
	if err != nil {
		t.Fatalf("NewTreeSitter error: %v", err)
	}
	defer ts.Close()

	e := editor.New[struct{}]("", textedit.Options{}, ts)
	e.ProcessCommands(textedit.InsertText("func f() {}"))
	lines := e.HighlightedLines()
	if len(lines) != 1 {
		t.Fatalf("highlighted lines = %d, want 1", len(lines))
	}
	assertKind(t, lines[0], "func", "keyword")
}
