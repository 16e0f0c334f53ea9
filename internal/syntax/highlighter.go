package syntax

import (
	"github.com/kobzarvs/gridedit/internal/config"
	"github.com/kobzarvs/gridedit/internal/editor"
	"github.com/kobzarvs/gridedit/internal/logger"
)

// ForFile picks a highlighter for path according to the editor options.
// With the tree-sitter preference, a built-in grammar is used when the
// language has one, then the regex rules, then any chroma lexer matching
// the file. It returns nil when nothing applies.
func ForFile(path string, langs config.Languages, opts config.EditorOptions, theme *Theme) editor.Highlighter {
	name, lexer := "", ""
	if lang := langs.Match(path); lang != nil {
		name, lexer = lang.Name, lang.Lexer
	}
	if lexer == "" {
		lexer = name
	}

	switch opts.Highlighter {
	case config.HighlighterNone:
		return nil
	case config.HighlighterChroma:
		if c, ok := NewChroma(lexer, path, opts.ChromaStyle, theme); ok {
			return c
		}
		return nil
	}

	if HasTreeSitter(name) {
		ts, err := NewTreeSitter(name, theme)
		if err == nil {
			return ts
		}
		logger.Warn("tree-sitter unavailable", "language", name, "error", err)
	}
	if r, ok := NewRegex(name, theme); ok {
		return r
	}
	if c, ok := NewChroma(lexer, path, opts.ChromaStyle, theme); ok {
		return c
	}
	return nil
}
