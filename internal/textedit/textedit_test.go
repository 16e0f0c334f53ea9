package textedit

import (
	"testing"

	"github.com/kobzarvs/gridedit/internal/selection"
	"github.com/kobzarvs/gridedit/internal/textbuf"
)

func pos(x, y int) textbuf.Position { return textbuf.Position{X: x, Y: y} }

func assertContent(t *testing.T, te *TextEdit, want string) {
	t.Helper()
	if got := te.Content(); got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func assertPosition(t *testing.T, te *TextEdit, want textbuf.Position) {
	t.Helper()
	if got := te.Position(); got != want {
		t.Fatalf("position = %+v, want %+v", got, want)
	}
}

func TestCutSelectedText(t *testing.T) {
	te := New("Hello world", Options{})
	te.ProcessCommand(SetSelection(pos(0, 0), pos(4, 0)))
	if got, changed := te.CutSelectedText(); got != "Hello" || !changed {
		t.Fatalf("cut = %q,%v, want %q,true", got, changed, "Hello")
	}
	assertContent(t, te, " world")
	if te.Selection().Active() {
		t.Fatalf("selection still active after cut")
	}
	te.ProcessCommand(Undo())
	assertContent(t, te, "Hello world")
}

func TestMovesAreNotRecorded(t *testing.T) {
	te := New("a\nb\nc", Options{})
	te.ProcessCommand(SetPosition(pos(0, 2)))
	changed := te.ProcessCommands(MoveUp(), MoveUp(), MoveUp(), MoveUp(), MoveUp())
	if changed {
		t.Fatalf("moves reported a content change")
	}
	if te.ProcessCommand(Undo()) {
		t.Fatalf("Undo after moves reported a change")
	}
	assertContent(t, te, "a\nb\nc")
	assertPosition(t, te, pos(0, 0))
}

func TestTypingMergesIntoOneUndoStep(t *testing.T) {
	te := New("", Options{})
	for _, ch := range "hello" {
		te.ProcessCommand(InsertChar(ch))
	}
	assertContent(t, te, "hello")
	if n := te.History().Len(); n != 1 {
		t.Fatalf("history steps = %d, want 1", n)
	}
	te.ProcessCommand(Undo())
	assertContent(t, te, "")
	assertPosition(t, te, pos(0, 0))
}

func TestInsertCharAdvancesByWidth(t *testing.T) {
	te := New("", Options{})
	te.ProcessCommand(InsertChar('文'))
	assertPosition(t, te, pos(2, 0))
	te.ProcessCommand(InsertChar('a'))
	assertContent(t, te, "文a")
	assertPosition(t, te, pos(3, 0))
}

func TestVirtualInsertPads(t *testing.T) {
	te := New("", Options{VirtualEdit: true})
	te.ProcessCommand(SetPosition(pos(5, 0)))
	te.ProcessCommand(InsertChar('Y'))
	assertContent(t, te, "     Y")
	assertPosition(t, te, pos(6, 0))
}

func TestIndentForward(t *testing.T) {
	te := New("x", Options{})
	te.ProcessCommand(IndentForward())
	assertContent(t, te, "    x")
	assertPosition(t, te, pos(4, 0))

	te = New("x", Options{IndentWidth: 2})
	te.ProcessCommand(IndentForward())
	assertContent(t, te, "  x")
}

func TestBreakLineAndUndo(t *testing.T) {
	te := New("Hello world", Options{})
	te.ProcessCommand(SetPosition(pos(5, 0)))
	te.ProcessCommand(BreakLine())
	assertContent(t, te, "Hello\n world")
	assertPosition(t, te, pos(0, 1))
	te.ProcessCommand(Undo())
	assertContent(t, te, "Hello world")
	assertPosition(t, te, pos(5, 0))
}

func TestDeleteBack(t *testing.T) {
	te := New("ab\ncd", Options{})
	te.ProcessCommand(SetPosition(pos(0, 1)))
	if !te.ProcessCommand(DeleteBack()) {
		t.Fatalf("join reported no change")
	}
	assertContent(t, te, "abcd")
	assertPosition(t, te, pos(2, 0))
	te.ProcessCommand(Undo())
	assertContent(t, te, "ab\ncd")

	te = New("a文b", Options{})
	te.ProcessCommand(SetPosition(pos(3, 0)))
	te.ProcessCommand(DeleteBack())
	assertContent(t, te, "ab")
	assertPosition(t, te, pos(1, 0))

	te = New("ab", Options{})
	if te.ProcessCommand(DeleteBack()) {
		t.Fatalf("DeleteBack at origin reported a change")
	}
}

func TestDeleteBackInVirtualSpaceOnlyMoves(t *testing.T) {
	te := New("ab", Options{VirtualEdit: true})
	te.ProcessCommand(SetPosition(pos(5, 0)))
	if te.ProcessCommand(DeleteBack()) {
		t.Fatalf("DeleteBack in virtual space reported a change")
	}
	assertContent(t, te, "ab")
	assertPosition(t, te, pos(4, 0))
}

func TestDeleteForward(t *testing.T) {
	te := New("ab\ncd", Options{})
	te.ProcessCommand(SetPosition(pos(1, 0)))
	te.ProcessCommand(DeleteForward())
	assertContent(t, te, "a\ncd")
	assertPosition(t, te, pos(1, 0))

	te.ProcessCommand(DeleteForward())
	assertContent(t, te, "acd")
	assertPosition(t, te, pos(1, 0))

	te.ProcessCommand(MoveEnd())
	if te.ProcessCommand(DeleteForward()) {
		t.Fatalf("DeleteForward at end of content reported a change")
	}
}

func TestCombiningMarkStaysWithItsLetter(t *testing.T) {
	te := New("", Options{})
	te.ProcessCommands(InsertChar('e'), InsertChar('\u0301'), InsertChar('x'))
	assertContent(t, te, "e\u0301x")
	assertPosition(t, te, pos(2, 0))

	te.ProcessCommand(SetPosition(pos(1, 0)))
	te.ProcessCommand(ReplaceChar('\u0302'))
	assertContent(t, te, "e\u0301\u0302x")
}

func TestDeleteBackRemovesCombiningMark(t *testing.T) {
	te := New("e\u0301", Options{})
	te.ProcessCommand(SetPosition(pos(1, 0)))
	if !te.ProcessCommand(DeleteBack()) {
		t.Fatalf("DeleteBack reported no change")
	}
	assertContent(t, te, "e")
	assertPosition(t, te, pos(1, 0))
	te.ProcessCommand(Undo())
	assertContent(t, te, "e\u0301")

	te.ProcessCommands(SetPosition(pos(1, 0)), DeleteBack(), DeleteBack())
	assertContent(t, te, "")
}

func TestDeleteForwardTakesMarksWithLetter(t *testing.T) {
	te := New("ae\u0301\u0302b", Options{})
	te.ProcessCommand(SetPosition(pos(1, 0)))
	te.ProcessCommand(DeleteForward())
	assertContent(t, te, "ab")
	assertPosition(t, te, pos(1, 0))
	te.ProcessCommand(Undo())
	assertContent(t, te, "ae\u0301\u0302b")
}

func TestCutKeepsMarksWithLetters(t *testing.T) {
	te := New("ae\u0301\u0302b\nc\u0301d", Options{})
	te.ProcessCommand(SetSelection(pos(1, 0), pos(0, 1)))
	got, _ := te.CutSelectedText()
	if want := "e\u0301\u0302b\nc\u0301"; got != want {
		t.Fatalf("cut = %q, want %q", got, want)
	}
	assertContent(t, te, "ad")
	te.ProcessCommand(Undo())
	assertContent(t, te, "ae\u0301\u0302b\nc\u0301d")
}

func TestClampedAndVirtualPositioning(t *testing.T) {
	te := New("ab\nc", Options{})
	te.ProcessCommand(SetPosition(pos(9, 9)))
	assertPosition(t, te, pos(1, 1))
	te.ProcessCommand(MoveDown())
	assertPosition(t, te, pos(1, 1))

	te = New("ab\nc", Options{VirtualEdit: true})
	te.ProcessCommand(SetPosition(pos(9, 9)))
	assertPosition(t, te, pos(9, 9))
	te.ProcessCommand(MoveDown())
	assertPosition(t, te, pos(9, 10))

	te.ProcessCommand(VirtualEdit(false))
	assertPosition(t, te, pos(1, 1))
}

func TestInsertTextIsOneStep(t *testing.T) {
	te := New("ab", Options{})
	te.ProcessCommand(SetPosition(pos(1, 0)))
	te.ProcessCommand(InsertText("x\r\ny"))
	assertContent(t, te, "ax\nyb")
	assertPosition(t, te, pos(1, 1))
	if n := te.History().Len(); n != 1 {
		t.Fatalf("history steps = %d, want 1", n)
	}
	te.ProcessCommand(Undo())
	assertContent(t, te, "ab")
}

func TestReplaceChar(t *testing.T) {
	te := New("abc", Options{})
	te.ProcessCommand(SetPosition(pos(1, 0)))
	te.ProcessCommand(ReplaceChar('X'))
	assertContent(t, te, "aXc")
	assertPosition(t, te, pos(2, 0))
	te.ProcessCommand(Undo())
	assertContent(t, te, "abc")
}

func TestPasteTextBlockAndMerge(t *testing.T) {
	te := New("abc\ndef", Options{})
	te.ProcessCommand(SetPosition(pos(1, 0)))
	te.ProcessCommand(PasteTextBlock("XY\nZ"))
	assertContent(t, te, "aXY\ndZf")
	te.ProcessCommand(Undo())
	assertContent(t, te, "abc\ndef")

	te = New("abcdef", Options{})
	te.ProcessCommand(MergeText("X Y"))
	assertContent(t, te, "XbYdef")
	te.ProcessCommand(Undo())
	assertContent(t, te, "abcdef")
	te.ProcessCommand(Redo())
	assertContent(t, te, "XbYdef")
}

func TestSetContentResetsHistoryAndSelection(t *testing.T) {
	te := New("", Options{})
	te.ProcessCommands(InsertChar('a'), InsertChar('b'), SetSelection(pos(0, 0), pos(1, 0)))
	if !te.ProcessCommand(SetContent("new")) {
		t.Fatalf("SetContent reported no change")
	}
	assertContent(t, te, "new")
	assertPosition(t, te, pos(0, 0))
	if te.ProcessCommand(Undo()) {
		t.Fatalf("Undo after SetContent reported a change")
	}
	if te.Selection().Active() {
		t.Fatalf("selection survived SetContent")
	}
}

func TestEditsDoNotRepairSelection(t *testing.T) {
	te := New("abcdef", Options{})
	te.ProcessCommand(SetSelection(pos(0, 0), pos(2, 0)))
	te.ProcessCommand(InsertChar('Z'))
	if !te.Selection().Active() {
		t.Fatalf("selection cleared by an edit")
	}
	if got := te.SelectedText(); got != "Zab" {
		t.Fatalf("selected text = %q, want %q", got, "Zab")
	}
}

func TestBlockCutIsUndoable(t *testing.T) {
	te := New("abcd\nefgh\nij", Options{SelectionMode: selection.Block})
	te.ProcessCommand(SetSelection(pos(2, 2), pos(1, 0)))
	if got, _ := te.CutSelectedText(); got != "bc\nfg\nj" {
		t.Fatalf("cut = %q, want %q", got, "bc\nfg\nj")
	}
	assertContent(t, te, "ad\neh\ni")
	assertPosition(t, te, pos(1, 0))
	te.ProcessCommand(Undo())
	assertContent(t, te, "abcd\nefgh\nij")
}

func TestBlockCutOfVirtualColumnsChangesNothing(t *testing.T) {
	te := New("ab\ncd", Options{SelectionMode: selection.Block})
	te.ProcessCommand(SetSelection(pos(5, 0), pos(7, 1)))
	got, changed := te.CutSelectedText()
	if got != "   \n   " || changed {
		t.Fatalf("cut = %q,%v, want %q,false", got, changed, "   \n   ")
	}
	assertContent(t, te, "ab\ncd")
	if te.ProcessCommand(Undo()) {
		t.Fatalf("Undo reported a change after an empty cut")
	}
}

func TestLinearCutAcrossLinesUndoRedo(t *testing.T) {
	te := New("before text\nHello world\nafter text", Options{})
	te.ProcessCommands(SetSelectionStart(pos(7, 0)), SetSelectionEnd(pos(5, 1)))
	if got := te.SelectedText(); got != "text\nHello " {
		t.Fatalf("selected = %q, want %q", got, "text\nHello ")
	}
	if !te.ProcessCommand(DeleteSelection()) {
		t.Fatalf("DeleteSelection reported no change")
	}
	assertContent(t, te, "before world\nafter text")
	assertPosition(t, te, pos(7, 0))
	te.ProcessCommand(Undo())
	assertContent(t, te, "before text\nHello world\nafter text")
	te.ProcessCommand(Redo())
	assertContent(t, te, "before world\nafter text")
}

func TestSelectAll(t *testing.T) {
	te := New("ab\ncde", Options{})
	te.ProcessCommand(SelectAll())
	if got := te.SelectedText(); got != "ab\ncde" {
		t.Fatalf("linear select all = %q", got)
	}
	te.ProcessCommand(SelectionMode(selection.Block))
	te.ProcessCommand(SelectAll())
	if got := te.SelectedText(); got != "ab\ncde" {
		t.Fatalf("block select all = %q", got)
	}
	te.ProcessCommand(ClearSelection())
	if got := te.SelectedText(); got != "" {
		t.Fatalf("selected after clear = %q", got)
	}
}

func TestUndoRedoRestoresEveryStep(t *testing.T) {
	te := New("x", Options{})
	te.ProcessCommands(
		InsertChar('a'), InsertChar('b'), BumpHistory(), InsertChar('c'),
		BreakLine(), DeleteBack(), InsertText("q\nr"),
	)
	final := te.Content()
	if final != "abcq\nrx" {
		t.Fatalf("setup content = %q, want %q", final, "abcq\nrx")
	}
	steps := 0
	for te.ProcessCommand(Undo()) {
		steps++
	}
	assertContent(t, te, "x")
	for i := 0; i < steps; i++ {
		te.ProcessCommand(Redo())
	}
	assertContent(t, te, final)
}

func TestRedoneInsertTextStaysOneStep(t *testing.T) {
	te := New("", Options{})
	te.ProcessCommand(InsertText("ab"))
	te.ProcessCommands(Undo(), Redo())
	assertContent(t, te, "ab")
	te.ProcessCommand(InsertChar('c'))
	te.ProcessCommand(Undo())
	assertContent(t, te, "ab")
}

func TestRedoPlacesCursorAtLastAction(t *testing.T) {
	te := New("", Options{})
	te.ProcessCommands(InsertChar('a'), InsertChar('b'), Undo())
	te.ProcessCommand(Redo())
	assertPosition(t, te, pos(1, 0))
}

func TestParseOp(t *testing.T) {
	op, ok := ParseOp("move_up")
	if !ok || op != OpMoveUp {
		t.Fatalf("ParseOp(move_up) = %v,%v", op, ok)
	}
	if _, ok := ParseOp("fly"); ok {
		t.Fatalf("ParseOp(fly) ok = true")
	}
	if got := InsertChar('q').String(); got != `insert_char('q')` {
		t.Fatalf("command string = %q", got)
	}
}
