// Package editor wraps a TextEdit with syntax highlighting and change
// subscribers. The message type M belongs to the host: every subscriber
// returns one, and a batch of commands hands the collected messages back
// so the host can fold them into its own event loop.
package editor

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/gridedit/internal/logger"
	"github.com/kobzarvs/gridedit/internal/selection"
	"github.com/kobzarvs/gridedit/internal/textbuf"
	"github.com/kobzarvs/gridedit/internal/textedit"
)

// Span is a styled run of text inside one line.
type Span struct {
	Kind  string
	Style tcell.Style
	Text  string
}

// Highlighter produces styled spans for a whole document. Begin is called
// once per pass with every line, so implementations can parse the document
// once and then answer per-line queries.
type Highlighter interface {
	Begin(lines []string) LineHighlighter
}

type LineHighlighter interface {
	HighlightLine(row int, line string) []Span
}

// Subscription identifies a registered callback.
type Subscription uint64

type changeSub[M any] struct {
	id Subscription
	fn func(string) M
}

type notifySub[M any] struct {
	id Subscription
	fn func() M
}

type Editor[M any] struct {
	te           *textedit.TextEdit
	highlighter  Highlighter
	defaultStyle tcell.Style
	highlighted  [][]Span

	onChange []changeSub[M]
	onNotify []notifySub[M]
	nextID   Subscription
}

// New builds an editor over text. h may be nil, in which case every line
// is one default-styled span.
func New[M any](text string, opts textedit.Options, h Highlighter) *Editor[M] {
	e := &Editor[M]{
		te:           textedit.New(text, opts),
		highlighter:  h,
		defaultStyle: tcell.StyleDefault,
	}
	e.highlight()
	return e
}

func (e *Editor[M]) Content() string                { return e.te.Content() }
func (e *Editor[M]) Lines() []string                { return e.te.Lines() }
func (e *Editor[M]) Position() textbuf.Position     { return e.te.Position() }
func (e *Editor[M]) TotalLines() int                { return e.te.TotalLines() }
func (e *Editor[M]) NumberlineWide() int            { return e.te.NumberlineWide() }
func (e *Editor[M]) Selection() selection.Selection { return e.te.Selection() }
func (e *Editor[M]) SelectedText() string           { return e.te.SelectedText() }
func (e *Editor[M]) HighlightedLines() [][]Span     { return e.highlighted }
func (e *Editor[M]) TextEdit() *textedit.TextEdit   { return e.te }
func (e *Editor[M]) Highlighter() Highlighter       { return e.highlighter }
func (e *Editor[M]) DefaultStyle() tcell.Style      { return e.defaultStyle }

// CutSelectedText removes the selection through history and runs the
// change pass when something was removed.
func (e *Editor[M]) CutSelectedText() (string, []M) {
	text, changed := e.te.CutSelectedText()
	if !changed {
		return text, nil
	}
	return text, e.changed()
}

// SetHighlighter swaps the highlighter and re-highlights. Subscribers are
// not notified since the content did not change.
func (e *Editor[M]) SetHighlighter(h Highlighter) {
	e.highlighter = h
	e.highlight()
}

// SetDefaultStyle sets the style used for unhighlighted text.
func (e *Editor[M]) SetDefaultStyle(style tcell.Style) {
	e.defaultStyle = style
	e.highlight()
}

// ProcessCommand applies one command. It reports whether the content
// changed along with the messages produced by subscribers.
func (e *Editor[M]) ProcessCommand(cmd textedit.Command) ([]M, bool) {
	if !e.te.ProcessCommand(cmd) {
		return nil, false
	}
	return e.changed(), true
}

// ProcessCommands applies a batch and runs at most one highlight and
// notify pass for the whole batch.
func (e *Editor[M]) ProcessCommands(cmds ...textedit.Command) []M {
	if !e.te.ProcessCommands(cmds...) {
		return nil
	}
	return e.changed()
}

// OnChange registers fn to receive the full content after every change.
func (e *Editor[M]) OnChange(fn func(content string) M) Subscription {
	e.nextID++
	e.onChange = append(e.onChange, changeSub[M]{id: e.nextID, fn: fn})
	return e.nextID
}

// OnChangeNotify registers fn to be told that the content changed.
func (e *Editor[M]) OnChangeNotify(fn func() M) Subscription {
	e.nextID++
	e.onNotify = append(e.onNotify, notifySub[M]{id: e.nextID, fn: fn})
	return e.nextID
}

// Unsubscribe removes a callback registered with OnChange or
// OnChangeNotify. It must not be called from inside a callback.
func (e *Editor[M]) Unsubscribe(id Subscription) bool {
	for i, s := range e.onChange {
		if s.id == id {
			e.onChange = append(e.onChange[:i:i], e.onChange[i+1:]...)
			return true
		}
	}
	for i, s := range e.onNotify {
		if s.id == id {
			e.onNotify = append(e.onNotify[:i:i], e.onNotify[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Editor[M]) changed() []M {
	e.highlight()
	return e.dispatch()
}

func (e *Editor[M]) dispatch() []M {
	if len(e.onChange)+len(e.onNotify) == 0 {
		return nil
	}
	msgs := make([]M, 0, len(e.onChange)+len(e.onNotify))
	if len(e.onChange) > 0 {
		content := e.te.Content()
		for _, s := range e.onChange {
			msgs = append(msgs, s.fn(content))
		}
	}
	for _, s := range e.onNotify {
		msgs = append(msgs, s.fn())
	}
	return msgs
}

func (e *Editor[M]) highlight() {
	lines := e.te.Lines()
	out := make([][]Span, len(lines))
	if e.highlighter == nil {
		for i, line := range lines {
			out[i] = e.plain(line)
		}
		e.highlighted = out
		return
	}
	lh := e.highlighter.Begin(lines)
	for i, line := range lines {
		out[i] = lh.HighlightLine(i, line)
	}
	e.highlighted = out
	logger.Debug("highlight pass", "lines", len(lines))
}

func (e *Editor[M]) plain(line string) []Span {
	if line == "" {
		return nil
	}
	return []Span{{Style: e.defaultStyle, Text: line}}
}
