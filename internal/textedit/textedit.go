// Package textedit is the command surface of the editing engine. Every
// content change goes through a TextEdit so that the buffer mutation and
// its history record always happen together.
package textedit

import (
	"strings"

	"github.com/kobzarvs/gridedit/internal/history"
	"github.com/kobzarvs/gridedit/internal/logger"
	"github.com/kobzarvs/gridedit/internal/selection"
	"github.com/kobzarvs/gridedit/internal/textbuf"
)

const defaultIndentWidth = 4

// Options configure a TextEdit. Zero values select the defaults.
type Options struct {
	HistorySize   int
	IndentWidth   int
	VirtualEdit   bool
	SelectionMode selection.Mode
}

type TextEdit struct {
	buf         *textbuf.TextBuffer
	history     *history.Recorded
	sel         selection.Selection
	indentWidth int
	virtualEdit bool
}

func New(text string, opts Options) *TextEdit {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = defaultIndentWidth
	}
	return &TextEdit{
		buf:         textbuf.New(text),
		history:     history.NewRecorded(opts.HistorySize),
		sel:         selection.New(opts.SelectionMode),
		indentWidth: opts.IndentWidth,
		virtualEdit: opts.VirtualEdit,
	}
}

func (t *TextEdit) Content() string            { return t.buf.Content() }
func (t *TextEdit) Lines() []string            { return t.buf.Lines() }
func (t *TextEdit) Position() textbuf.Position { return t.buf.Cursor() }
func (t *TextEdit) TotalLines() int            { return t.buf.LineCount() }
func (t *TextEdit) NumberlineWide() int        { return t.buf.NumberlineWide() }

// Buffer exposes the underlying grid for read access (rendering walks its
// cells). Mutating it directly bypasses history.
func (t *TextEdit) Buffer() *textbuf.TextBuffer { return t.buf }

func (t *TextEdit) History() *history.Recorded { return t.history }

func (t *TextEdit) Selection() selection.Selection { return t.sel }

func (t *TextEdit) VirtualEditEnabled() bool { return t.virtualEdit }

// SelectedText returns the text covered by the selection in its mode, or
// "" when the selection is not set.
func (t *TextEdit) SelectedText() string {
	start, end, ok := t.sel.Normalized()
	if !ok {
		return ""
	}
	if t.sel.Mode() == selection.Block {
		return t.buf.GetTextInBlockMode(start, end)
	}
	return t.buf.GetTextInLinearMode(start, end)
}

// CutSelectedText removes the selected text as one undo step, clears the
// selection and returns what was selected. changed is false when nothing
// was removed, as with a block covering only virtual columns.
func (t *TextEdit) CutSelectedText() (text string, changed bool) {
	text = t.SelectedText()
	return text, t.deleteSelection()
}

// ProcessCommands applies cmds in order and reports whether any of them
// changed the content.
func (t *TextEdit) ProcessCommands(cmds ...Command) bool {
	changed := false
	for _, cmd := range cmds {
		if t.ProcessCommand(cmd) {
			changed = true
		}
	}
	return changed
}

// ProcessCommand applies one command and reports whether the content
// changed. Cursor and selection commands never touch history.
func (t *TextEdit) ProcessCommand(cmd Command) bool {
	logger.Debug("textedit command", "cmd", cmd.String())
	switch cmd.Op {
	case OpIndentForward:
		for i := 0; i < t.indentWidth; i++ {
			t.insertChar(' ')
		}
		return true
	case OpBreakLine:
		t.breakLine()
		return true
	case OpDeleteBack:
		return t.deleteBack()
	case OpDeleteForward:
		return t.deleteForward()
	case OpMoveUp:
		t.move(t.buf.MoveUp, t.buf.MoveUpClamped)
	case OpMoveDown:
		t.move(t.buf.MoveDown, t.buf.MoveDownClamped)
	case OpMoveLeft:
		t.move(t.buf.MoveLeft, t.buf.MoveLeftClamped)
	case OpMoveRight:
		t.move(t.buf.MoveRight, t.buf.MoveRightClamped)
	case OpMoveStart:
		t.buf.MoveStart()
	case OpMoveEnd:
		t.buf.MoveEnd()
	case OpMoveTop:
		t.buf.MoveTop()
	case OpMoveBottom:
		t.buf.MoveBottom()
	case OpInsertChar:
		t.insertChar(cmd.Char)
		return true
	case OpReplaceChar:
		t.replaceChar(cmd.Char)
		return true
	case OpInsertText:
		return t.insertText(cmd.Text)
	case OpPasteTextBlock:
		return t.recordReplacements(t.buf.PasteTextInBlockMode(cmd.Text))
	case OpMergeText:
		return t.recordReplacements(t.buf.MergeText(cmd.Text))
	case OpSetContent:
		t.setContent(cmd.Text)
		return true
	case OpUndo:
		pos, ok := t.history.Undo(t.buf)
		if ok {
			t.placeCursor(pos)
		}
		return ok
	case OpRedo:
		pos, ok := t.history.Redo(t.buf)
		if ok {
			t.placeCursor(pos)
		}
		return ok
	case OpBumpHistory:
		t.history.Bump()
	case OpSetSelection:
		t.sel.Set(cmd.Pos, cmd.End)
	case OpSetSelectionStart:
		t.sel.SetStart(cmd.Pos)
	case OpSetSelectionEnd:
		t.sel.SetEnd(cmd.Pos)
	case OpSelectAll:
		t.selectAll()
	case OpClearSelection:
		t.sel.Clear()
	case OpSetPosition:
		t.placeCursor(cmd.Pos)
	case OpSelectionMode:
		t.sel.SetMode(cmd.Mode)
	case OpVirtualEdit:
		t.virtualEdit = cmd.On
		if !t.virtualEdit {
			t.buf.SetCursorClamped(t.buf.Cursor())
		}
	case OpDeleteSelection:
		return t.deleteSelection()
	default:
		logger.Warn("textedit unknown command", "op", int(cmd.Op))
	}
	return false
}

func (t *TextEdit) move(free, clamped func()) {
	if t.virtualEdit {
		free()
		return
	}
	clamped()
}

func (t *TextEdit) placeCursor(p textbuf.Position) {
	if t.virtualEdit {
		t.buf.SetCursor(p)
		return
	}
	t.buf.SetCursorClamped(p)
}

// apply performs a on the buffer and records it.
func (t *TextEdit) apply(a history.Action) {
	a.Apply(t.buf)
	t.history.Record(a)
}

// at returns the cursor snapped to the start of the cell it points into.
func (t *TextEdit) at() textbuf.Position {
	p := t.buf.Cursor()
	p.X = t.buf.SnapColumn(p.X, p.Y)
	return p
}

func (t *TextEdit) insertChar(ch rune) {
	p := t.at()
	t.apply(history.InsertAction(p, ch))
	t.buf.SetCursor(textbuf.Position{X: p.X + textbuf.NewCell(ch).Width, Y: p.Y})
}

// replaceChar overwrites the cell under the cursor. A zero-width character
// has no cell of its own to overwrite and is inserted instead.
func (t *TextEdit) replaceChar(ch rune) {
	if textbuf.NewCell(ch).Width == 0 {
		t.insertChar(ch)
		return
	}
	p := t.at()
	old := t.buf.ReplaceChar(p.X, p.Y, ch)
	t.history.Record(history.ReplaceAction(p, old, ch))
	t.buf.SetCursor(textbuf.Position{X: p.X + textbuf.NewCell(ch).Width, Y: p.Y})
}

func (t *TextEdit) breakLine() {
	p := t.at()
	t.apply(history.BreakLineAction(p))
	t.buf.SetCursor(textbuf.Position{Y: p.Y + 1})
}

// deleteBack removes the character before the cursor. A combining mark is
// removed on its own and the cursor stays put. At column 0 it joins the
// line onto the previous one; in virtual space past the end of the line it
// only moves the cursor left.
func (t *TextEdit) deleteBack() bool {
	p := t.buf.Cursor()
	switch {
	case p.X > t.buf.LineWidth(p.Y):
		t.buf.MoveLeft()
		return false
	case p.X == 0:
		if p.Y == 0 {
			return false
		}
		prev := textbuf.Position{X: t.buf.LineWidth(p.Y - 1), Y: p.Y - 1}
		if p.Y >= t.buf.LineCount() {
			t.buf.SetCursor(prev)
			return false
		}
		t.apply(history.JoinLineAction(prev))
		t.buf.SetCursor(prev)
		return true
	}
	if mark, ok := t.buf.MarkAt(p.X, p.Y); ok {
		t.apply(history.DeleteAction(p, mark))
		return true
	}
	x := t.buf.SnapColumn(p.X-1, p.Y)
	ch, ok := t.buf.CharAt(x, p.Y)
	if !ok {
		return false
	}
	t.apply(history.DeleteAction(textbuf.Position{X: x, Y: p.Y}, ch))
	t.buf.SetCursor(textbuf.Position{X: x, Y: p.Y})
	return true
}

// deleteForward removes the character under the cursor, or joins the next
// line when the cursor is at or past the end of its line.
func (t *TextEdit) deleteForward() bool {
	p := t.at()
	width := t.buf.LineWidth(p.Y)
	if p.X < width {
		col, cells := t.buf.Covered(p.Y, p.X, p.X)
		if len(cells) == 0 {
			return false
		}
		at := textbuf.Position{X: col, Y: p.Y}
		for _, a := range t.deleteCells(at, cells) {
			t.history.Record(a)
		}
		t.buf.SetCursor(at)
		return true
	}
	if p.Y+1 >= t.buf.LineCount() {
		return false
	}
	join := textbuf.Position{X: width, Y: p.Y}
	t.apply(history.JoinLineAction(join))
	t.buf.SetCursor(join)
	return true
}

// insertText types text at the cursor as a single undo step.
func (t *TextEdit) insertText(text string) bool {
	var list history.ActionList
	for _, ch := range text {
		p := t.at()
		switch ch {
		case '\r':
			continue
		case '\n':
			a := history.BreakLineAction(p)
			a.Apply(t.buf)
			list = append(list, a)
			t.buf.SetCursor(textbuf.Position{Y: p.Y + 1})
		default:
			a := history.InsertAction(p, ch)
			a.Apply(t.buf)
			list = append(list, a)
			t.buf.SetCursor(textbuf.Position{X: p.X + textbuf.NewCell(ch).Width, Y: p.Y})
		}
	}
	t.history.RecordList(list)
	return len(list) > 0
}

func (t *TextEdit) recordReplacements(reps []textbuf.Replacement) bool {
	list := make(history.ActionList, 0, len(reps))
	for _, r := range reps {
		list = append(list, history.ReplaceAction(r.Pos, r.Old, r.New))
	}
	t.history.RecordList(list)
	return len(list) > 0
}

func (t *TextEdit) setContent(text string) {
	t.buf = textbuf.New(text)
	t.history.Reset()
	t.sel.Clear()
	logger.Debug("textedit content replaced", "lines", t.buf.LineCount())
}

func (t *TextEdit) selectAll() {
	last := t.buf.LineCount() - 1
	end := textbuf.Position{X: max(t.buf.LineWidth(last)-1, 0), Y: last}
	if t.sel.Mode() == selection.Block {
		widest := 0
		for y := 0; y <= last; y++ {
			widest = max(widest, t.buf.LineWidth(y))
		}
		end.X = max(widest-1, 0)
	}
	t.sel.Set(textbuf.Position{}, end)
}

// deleteSelection removes the selected text as one undo step built from
// Delete and JoinLine actions, then clears the selection and puts the
// cursor where the text began.
func (t *TextEdit) deleteSelection() bool {
	start, end, ok := t.sel.Normalized()
	if !ok {
		return false
	}
	var list history.ActionList
	var cursor textbuf.Position
	if t.sel.Mode() == selection.Block {
		list, cursor = t.blockDeletions(start, end)
	} else {
		list, cursor = t.linearDeletions(start, end)
	}
	t.sel.Clear()
	t.history.RecordList(list)
	if len(list) > 0 {
		t.placeCursor(cursor)
	}
	return len(list) > 0
}

// linearDeletions removes the linear range character by character from its
// first column: every removed cell is a Delete and every removed line
// break a JoinLine at the end of the shrinking first line.
func (t *TextEdit) linearDeletions(start, end textbuf.Position) (history.ActionList, textbuf.Position) {
	text := t.buf.GetTextInLinearMode(start, end)
	y := max(start.Y, 0)
	col, _ := t.buf.Covered(y, start.X, -1)
	origin := textbuf.Position{X: col, Y: y}

	var list history.ActionList
	for k, part := range strings.Split(text, "\n") {
		if k > 0 {
			a := history.JoinLineAction(textbuf.Position{X: t.buf.LineWidth(y), Y: y})
			a.Apply(t.buf)
			list = append(list, a)
		}
		cells := make([]textbuf.Cell, 0, len(part))
		for _, ch := range part {
			cells = append(cells, textbuf.NewCell(ch))
		}
		list = append(list, t.deleteCells(origin, cells)...)
	}
	return list, origin
}

// deleteCells removes cells, which start at column at.X, and returns the
// applied deletions. Each character's zero-width marks are deleted before
// it, last first, so replaying the inverses in reverse rebuilds them in
// order.
func (t *TextEdit) deleteCells(at textbuf.Position, cells []textbuf.Cell) history.ActionList {
	var list history.ActionList
	del := func(p textbuf.Position, ch rune) {
		a := history.DeleteAction(p, ch)
		a.Apply(t.buf)
		list = append(list, a)
	}
	for i := 0; i < len(cells); {
		base := -1
		if cells[i].Width > 0 {
			base = i
			i++
		}
		j := i
		for j < len(cells) && cells[j].Width == 0 {
			j++
		}
		markAt := at
		if base >= 0 {
			markAt.X += cells[base].Width
		}
		for k := j - 1; k >= i; k-- {
			del(markAt, cells[k].Char)
		}
		if base >= 0 {
			del(at, cells[base].Char)
		}
		i = j
	}
	return list
}

// blockDeletions drains the column range from every existing row.
func (t *TextEdit) blockDeletions(lo, hi textbuf.Position) (history.ActionList, textbuf.Position) {
	var list history.ActionList
	for y := max(lo.Y, 0); y <= hi.Y && y < t.buf.LineCount(); y++ {
		col, cells := t.buf.Covered(y, lo.X, hi.X)
		list = append(list, t.deleteCells(textbuf.Position{X: col, Y: y}, cells)...)
	}
	return list, textbuf.Position{X: max(lo.X, 0), Y: max(lo.Y, 0)}
}
