// Package history records invertible edits to a text buffer and replays
// them for undo and redo.
package history

import (
	"fmt"

	"github.com/kobzarvs/gridedit/internal/textbuf"
)

// Kind is the closed set of edit primitives.
type Kind int

const (
	Insert Kind = iota
	Delete
	Replace
	BreakLine
	JoinLine
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	case BreakLine:
		return "break_line"
	case JoinLine:
		return "join_line"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is one atomic edit. Char is the inserted or deleted character; for
// Replace it is the character that was overwritten and NewChar the one that
// replaced it. BreakLine and JoinLine only use Pos.
type Action struct {
	Kind    Kind
	Pos     textbuf.Position
	Char    rune
	NewChar rune
}

func InsertAction(pos textbuf.Position, ch rune) Action {
	return Action{Kind: Insert, Pos: pos, Char: ch}
}

func DeleteAction(pos textbuf.Position, ch rune) Action {
	return Action{Kind: Delete, Pos: pos, Char: ch}
}

func ReplaceAction(pos textbuf.Position, old, new rune) Action {
	return Action{Kind: Replace, Pos: pos, Char: old, NewChar: new}
}

func BreakLineAction(pos textbuf.Position) Action {
	return Action{Kind: BreakLine, Pos: pos}
}

// JoinLineAction records joining line pos.Y with the next one. pos.X must
// be the width line pos.Y had before the join so the inverse break splits
// at the same column.
func JoinLineAction(pos textbuf.Position) Action {
	return Action{Kind: JoinLine, Pos: pos}
}

// Invert returns the action that undoes a.
func (a Action) Invert() Action {
	switch a.Kind {
	case Insert:
		return DeleteAction(a.Pos, a.Char)
	case Delete:
		return InsertAction(a.Pos, a.Char)
	case Replace:
		return ReplaceAction(a.Pos, a.NewChar, a.Char)
	case BreakLine:
		return JoinLineAction(a.Pos)
	case JoinLine:
		return BreakLineAction(a.Pos)
	default:
		panic(fmt.Sprintf("history: invert of unknown action kind %d", int(a.Kind)))
	}
}

// Apply performs a on buf.
func (a Action) Apply(buf *textbuf.TextBuffer) {
	switch a.Kind {
	case Insert:
		buf.InsertChar(a.Pos.X, a.Pos.Y, a.Char)
	case Delete:
		if textbuf.NewCell(a.Char).Width == 0 {
			buf.DeleteMark(a.Pos.X, a.Pos.Y)
		} else {
			buf.DeleteChar(a.Pos.X, a.Pos.Y)
		}
	case Replace:
		buf.ReplaceChar(a.Pos.X, a.Pos.Y, a.NewChar)
	case BreakLine:
		buf.BreakLine(a.Pos)
	case JoinLine:
		buf.JoinLine(a.Pos)
	default:
		panic(fmt.Sprintf("history: apply of unknown action kind %d", int(a.Kind)))
	}
}

func (a Action) String() string {
	switch a.Kind {
	case Replace:
		return fmt.Sprintf("%s(%d,%d %q->%q)", a.Kind, a.Pos.X, a.Pos.Y, a.Char, a.NewChar)
	case BreakLine, JoinLine:
		return fmt.Sprintf("%s(%d,%d)", a.Kind, a.Pos.X, a.Pos.Y)
	default:
		return fmt.Sprintf("%s(%d,%d %q)", a.Kind, a.Pos.X, a.Pos.Y, a.Char)
	}
}

// ActionList is one undo step: actions in the order they were applied.
type ActionList []Action

// Clone returns a copy that shares no storage with l.
func (l ActionList) Clone() ActionList {
	if l == nil {
		return nil
	}
	return append(ActionList(nil), l...)
}

func (l ActionList) last() (Action, bool) {
	if len(l) == 0 {
		return Action{}, false
	}
	return l[len(l)-1], true
}
