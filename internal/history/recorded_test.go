package history

import (
	"testing"

	"github.com/kobzarvs/gridedit/internal/textbuf"
)

// do applies a to buf and records it, the way the command layer does.
func do(r *Recorded, buf *textbuf.TextBuffer, a Action) {
	a.Apply(buf)
	r.Record(a)
}

func typeText(r *Recorded, buf *textbuf.TextBuffer, y int, s string) {
	x := buf.LineWidth(y)
	for _, ch := range s {
		do(r, buf, InsertAction(textbuf.Position{X: x, Y: y}, ch))
		x += textbuf.DisplayWidth(string(ch))
	}
}

func TestConsecutiveInsertsMergeIntoOneStep(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(0)
	typeText(r, buf, 0, "hello")
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	pos, ok := r.Undo(buf)
	if !ok {
		t.Fatalf("Undo ok = false")
	}
	if got := buf.Content(); got != "" {
		t.Fatalf("content after undo = %q, want empty", got)
	}
	if pos != (textbuf.Position{}) {
		t.Fatalf("undo position = %+v, want origin", pos)
	}
	if r.CanUndo() {
		t.Fatalf("CanUndo after undoing the only step")
	}
}

func TestBumpSplitsSteps(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(0)
	typeText(r, buf, 0, "ab")
	r.Bump()
	r.Bump()
	typeText(r, buf, 0, "cd")
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	r.Undo(buf)
	if got := buf.Content(); got != "ab" {
		t.Fatalf("content after one undo = %q, want %q", got, "ab")
	}
}

func TestUndoSkipsTrailingBump(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(0)
	typeText(r, buf, 0, "ab")
	r.Bump()
	if _, ok := r.Undo(buf); !ok {
		t.Fatalf("Undo over a bump sentinel ok = false")
	}
	if got := buf.Content(); got != "" {
		t.Fatalf("content = %q, want empty", got)
	}
}

func TestDifferentKindsStartNewSteps(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(0)
	do(r, buf, InsertAction(textbuf.Position{}, 'a'))
	do(r, buf, BreakLineAction(textbuf.Position{X: 1}))
	do(r, buf, InsertAction(textbuf.Position{Y: 1}, 'b'))
	if got := buf.Content(); got != "a\nb" {
		t.Fatalf("content = %q, want %q", got, "a\nb")
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
}

func TestUndoRedoInverseLaw(t *testing.T) {
	buf := textbuf.New("x文y\nzz")
	r := NewRecorded(0)
	do(r, buf, InsertAction(textbuf.Position{X: 1}, 'A'))
	do(r, buf, ReplaceAction(textbuf.Position{X: 0}, 'x', 'B'))
	do(r, buf, BreakLineAction(textbuf.Position{X: 2}))
	do(r, buf, JoinLineAction(textbuf.Position{X: 3, Y: 1}))
	do(r, buf, DeleteAction(textbuf.Position{X: 0, Y: 1}, '文'))
	final := buf.Content()
	if final != "BA\nyzz" {
		t.Fatalf("setup content = %q, want %q", final, "BA\nyzz")
	}

	steps := 0
	for r.CanUndo() {
		r.Undo(buf)
		steps++
	}
	if got := buf.Content(); got != "x文y\nzz" {
		t.Fatalf("content after undoing everything = %q", got)
	}
	for i := 0; i < steps; i++ {
		if _, ok := r.Redo(buf); !ok {
			t.Fatalf("Redo %d ok = false", i)
		}
	}
	if got := buf.Content(); got != final {
		t.Fatalf("content after redoing everything = %q, want %q", got, final)
	}
	if r.CanRedo() {
		t.Fatalf("CanRedo after redoing everything")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(0)
	typeText(r, buf, 0, "a")
	r.Undo(buf)
	if !r.CanRedo() {
		t.Fatalf("CanRedo after undo = false")
	}
	typeText(r, buf, 0, "b")
	if r.CanRedo() {
		t.Fatalf("CanRedo after new edit = true")
	}
	if _, ok := r.Redo(buf); ok {
		t.Fatalf("Redo after divergent edit ok = true")
	}
}

func TestEmptyHistoryIsNoop(t *testing.T) {
	buf := textbuf.New("keep")
	r := NewRecorded(0)
	if _, ok := r.Undo(buf); ok {
		t.Fatalf("Undo on empty history ok = true")
	}
	if _, ok := r.Redo(buf); ok {
		t.Fatalf("Redo on empty history ok = true")
	}
	if got := buf.Content(); got != "keep" {
		t.Fatalf("content = %q, want %q", got, "keep")
	}
}

func TestCapacityEvictsOldestSteps(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(2)
	do(r, buf, InsertAction(textbuf.Position{}, 'a'))
	do(r, buf, BreakLineAction(textbuf.Position{X: 1}))
	do(r, buf, InsertAction(textbuf.Position{Y: 1}, 'b'))
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	r.Undo(buf)
	r.Undo(buf)
	if _, ok := r.Undo(buf); ok {
		t.Fatalf("third Undo ok = true, oldest step should be evicted")
	}
	if got := buf.Content(); got != "a" {
		t.Fatalf("content = %q, want %q", got, "a")
	}
}

func TestRedoReturnsLastPosition(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(0)
	typeText(r, buf, 0, "abc")
	r.Undo(buf)
	pos, ok := r.Redo(buf)
	if !ok || pos != (textbuf.Position{X: 2}) {
		t.Fatalf("Redo = %+v,%v, want {X:2 Y:0},true", pos, ok)
	}
}

func TestRedoneStepStaysClosed(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(0)
	list := ActionList{
		InsertAction(textbuf.Position{}, 'a'),
		InsertAction(textbuf.Position{X: 1}, 'b'),
	}
	for _, a := range list {
		a.Apply(buf)
	}
	r.RecordList(list)
	r.Undo(buf)
	r.Redo(buf)
	do(r, buf, InsertAction(textbuf.Position{X: 2}, 'c'))
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	r.Undo(buf)
	if got := buf.Content(); got != "ab" {
		t.Fatalf("content after undo = %q, want %q", got, "ab")
	}
}

func TestReset(t *testing.T) {
	buf := textbuf.New("")
	r := NewRecorded(0)
	typeText(r, buf, 0, "ab")
	r.Undo(buf)
	typeText(r, buf, 0, "c")
	r.Reset()
	if r.CanUndo() || r.CanRedo() {
		t.Fatalf("history not empty after Reset")
	}
}

func TestRecordListIsOneSealedStep(t *testing.T) {
	buf := textbuf.New("ab")
	r := NewRecorded(0)
	typeText(r, buf, 0, "c")
	list := ActionList{
		BreakLineAction(textbuf.Position{X: 3}),
		InsertAction(textbuf.Position{Y: 1}, 'd'),
	}
	for _, a := range list {
		a.Apply(buf)
	}
	r.RecordList(list)
	do(r, buf, InsertAction(textbuf.Position{X: 1, Y: 1}, 'e'))
	if got := buf.Content(); got != "abc\nde" {
		t.Fatalf("content = %q, want %q", got, "abc\nde")
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	r.Undo(buf)
	r.Undo(buf)
	if got := buf.Content(); got != "abc" {
		t.Fatalf("content after two undos = %q, want %q", got, "abc")
	}
}
