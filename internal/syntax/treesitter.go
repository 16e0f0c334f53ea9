package syntax

import (
	"context"
	"fmt"
	"math"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	tree_sitter_markdown_inline "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown-inline"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/gridedit/internal/editor"
	"github.com/kobzarvs/gridedit/internal/logger"
)

// Documents above this size are shown unhighlighted.
const maxHighlightBytes = 8 << 20

type grammar struct {
	language func() *sitter.Language
	query    string
}

var grammars = map[string]grammar{
	"go":       {golang.GetLanguage, goHighlightQuery},
	"markdown": {tree_sitter_markdown.GetLanguage, markdownBlockHighlightQuery},
	"yaml":     {yaml.GetLanguage, yamlHighlightQuery},
	"toml":     {toml.GetLanguage, tomlHighlightQuery},
	"bash":     {bash.GetLanguage, bashHighlightQuery},
}

// HasTreeSitter reports whether a tree-sitter grammar is built in for lang.
func HasTreeSitter(lang string) bool {
	_, ok := grammars[lang]
	return ok
}

// TreeSitter highlights a document by parsing it once per pass and running
// the language's highlight query over the whole tree. Markdown additionally
// runs the inline grammar over each line.
type TreeSitter struct {
	lang   string
	theme  *Theme
	parser *sitter.Parser
	query  *sitter.Query

	inlineParser *sitter.Parser
	inlineQuery  *sitter.Query
}

func NewTreeSitter(lang string, theme *Theme) (*TreeSitter, error) {
	g, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("no tree-sitter grammar for %q", lang)
	}
	query, err := sitter.NewQuery([]byte(g.query), g.language())
	if err != nil {
		return nil, fmt.Errorf("compile %s highlight query: %w", lang, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(g.language())
	ts := &TreeSitter{lang: lang, theme: theme, parser: parser, query: query}

	if lang == "markdown" {
		inline := tree_sitter_markdown_inline.GetLanguage()
		inlineQuery, err := sitter.NewQuery([]byte(markdownInlineHighlightQuery), inline)
		if err == nil {
			ts.inlineQuery = inlineQuery
			ts.inlineParser = sitter.NewParser()
			ts.inlineParser.SetLanguage(inline)
		} else {
			logger.Warn("markdown inline query", "error", err)
		}
	}
	return ts, nil
}

func (ts *TreeSitter) Language() string { return ts.lang }

// Close releases the parsers and queries.
func (ts *TreeSitter) Close() {
	ts.parser.Close()
	ts.query.Close()
	if ts.inlineParser != nil {
		ts.inlineParser.Close()
		ts.inlineQuery.Close()
	}
}

func (ts *TreeSitter) Begin(lines []string) editor.LineHighlighter {
	source := []byte(strings.Join(lines, "\n"))
	if len(source) > maxHighlightBytes {
		return plainLines{theme: ts.theme}
	}
	tree, err := ts.parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		logger.Warn("tree-sitter parse failed", "language", ts.lang, "error", err)
		return plainLines{theme: ts.theme}
	}
	defer tree.Close()
	return &treeLines{
		ts:   ts,
		caps: queryCaptures(ts.query, tree, source, 0, len(lines)-1),
	}
}

type treeLines struct {
	ts   *TreeSitter
	caps map[int][]capture
}

func (l *treeLines) HighlightLine(row int, line string) []editor.Span {
	caps := l.caps[row]
	if l.ts.inlineQuery != nil && line != "" {
		caps = append(caps, l.ts.inlineCaptures(line)...)
	}
	return l.ts.theme.spans(line, caps)
}

func (ts *TreeSitter) inlineCaptures(line string) []capture {
	source := []byte(line)
	tree, err := ts.inlineParser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()
	return queryCaptures(ts.inlineQuery, tree, source, 0, 0)[0]
}

// queryCaptures runs query over rows [startLine, endLine] and returns the
// captures per row in byte columns. Captures spanning several rows are
// split so each row gets its own piece.
func queryCaptures(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]capture {
	if query == nil || tree == nil {
		return nil
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]capture)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, c := range match.Captures {
			kind := query.CaptureNameForId(c.Index)
			start := c.Node.StartPoint()
			end := c.Node.EndPoint()
			startRow := int(start.Row)
			endRow := int(end.Row)
			for row := startRow; row <= endRow; row++ {
				if row < startLine || row > endLine {
					continue
				}
				startCol := 0
				endCol := math.MaxInt32
				if row == startRow {
					startCol = int(start.Column)
				}
				if row == endRow {
					endCol = int(end.Column)
				}
				out[row] = append(out[row], capture{start: startCol, end: endCol, kind: kind})
			}
		}
	}
	return out
}

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((escape_sequence) @string)
((int_literal) @number)
((float_literal) @number)
((imaginary_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((iota) @constant)
((identifier) @type (#match? @type "^(bool|byte|rune|string|int|int8|int16|int32|int64|uint|uint8|uint16|uint32|uint64|uintptr|float32|float64|complex64|complex128|error|any|comparable)$"))
((identifier) @builtin (#match? @builtin "^(append|cap|clear|close|complex|copy|delete|imag|len|make|max|min|new|panic|print|println|real|recover)$"))
((const_spec name: (identifier) @constant))
((type_spec name: (type_identifier) @type))
((type_identifier) @type)
((package_identifier) @type)
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function)))
((field_identifier) @field)
((parameter_declaration (identifier) @parameter))
((variadic_parameter_declaration (identifier) @parameter))
((label_name) @keyword)
((identifier) @variable)
[
  "+" "-" "*" "/" "%" "==" "!=" "<=" ">=" "<" ">" "=" ":=" "&&" "||"
  "!" "&" "|" "^" "<<" ">>" "&^" "+=" "-=" "*=" "/=" "%=" "&=" "|="
  "^=" "<<=" ">>=" "&^=" "<-" "++" "--" "..."
] @operator
[
  "." "," ";" ":" "(" ")" "[" "]" "{" "}"
] @punctuation
`

const yamlHighlightQuery = `
((comment) @comment)
((string_scalar) @string)
((double_quote_scalar) @string)
((single_quote_scalar) @string)
((integer_scalar) @number)
((float_scalar) @number)
((null_scalar) @constant)
((boolean_scalar) @constant)
((block_mapping_pair key: (_) @field))
((flow_pair key: (_) @field))
((anchor_name) @keyword)
((alias_name) @keyword)
((tag) @type)
["," ":" "-" "[" "]" "{" "}" ">" "|" "*" "&"] @punctuation
`

const tomlHighlightQuery = `
((comment) @comment)
((string) @string)
((integer) @number)
((float) @number)
((boolean) @constant)
((local_date) @string)
((local_time) @string)
((local_date_time) @string)
((offset_date_time) @string)
((bare_key) @field)
((quoted_key) @field)
((table (bare_key) @type))
((table (quoted_key) @type))
((table (dotted_key) @type))
((table_array_element (bare_key) @type))
((table_array_element (quoted_key) @type))
((table_array_element (dotted_key) @type))
["=" "." "," "[" "]" "[[" "]]" "{" "}"] @punctuation
`

const bashHighlightQuery = `
((comment) @comment)
((string) @string)
((raw_string) @string)
((heredoc_body) @string)
((number) @number)
((variable_name) @variable)
((special_variable_name) @variable)
((command_name) @function)
((function_definition name: (word) @function))
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function" "select" "return" "exit" "break" "continue"
  "local" "export" "readonly" "declare" "typeset" "unset"
] @keyword
["$" "${" "}" "(" ")" "((" "))" "[" "]" "[[" "]]" "{" ";" ";;" "&&" "||" "|" "&" "<" ">" ">>" "<<" "<<<"] @operator
`

const markdownBlockHighlightQuery = `
(atx_heading) @keyword
(setext_heading) @keyword
(thematic_break) @comment
(block_quote_marker) @comment
(list_marker_plus) @keyword
(list_marker_minus) @keyword
(list_marker_star) @keyword
(list_marker_dot) @keyword
(list_marker_parenthesis) @keyword
(task_list_marker_checked) @constant
(task_list_marker_unchecked) @constant
(fenced_code_block_delimiter) @string
(indented_code_block) @string
(info_string) @comment
(language) @type
(link_reference_definition) @function
(pipe_table_delimiter_row) @comment
`

const markdownInlineHighlightQuery = `
(code_span) @string
(emphasis) @type
(strong_emphasis) @type
(strikethrough) @comment
(inline_link) @function
(full_reference_link) @function
(collapsed_reference_link) @function
(shortcut_link) @function
(image) @function
(link_destination) @string
(uri_autolink) @function
(email_autolink) @function
`
