package textedit

import (
	"fmt"

	"github.com/kobzarvs/gridedit/internal/selection"
	"github.com/kobzarvs/gridedit/internal/textbuf"
)

// Op identifies a command.
type Op int

const (
	OpIndentForward Op = iota
	OpBreakLine
	OpDeleteBack
	OpDeleteForward
	OpMoveUp
	OpMoveDown
	OpMoveLeft
	OpMoveRight
	OpMoveStart
	OpMoveEnd
	OpMoveTop
	OpMoveBottom
	OpInsertChar
	OpReplaceChar
	OpInsertText
	OpPasteTextBlock
	OpMergeText
	OpSetContent
	OpUndo
	OpRedo
	OpBumpHistory
	OpSetSelection
	OpSetSelectionStart
	OpSetSelectionEnd
	OpSelectAll
	OpClearSelection
	OpSetPosition
	OpSelectionMode
	OpVirtualEdit
	OpDeleteSelection
)

var opNames = map[Op]string{
	OpIndentForward:     "indent_forward",
	OpBreakLine:         "break_line",
	OpDeleteBack:        "delete_back",
	OpDeleteForward:     "delete_forward",
	OpMoveUp:            "move_up",
	OpMoveDown:          "move_down",
	OpMoveLeft:          "move_left",
	OpMoveRight:         "move_right",
	OpMoveStart:         "move_start",
	OpMoveEnd:           "move_end",
	OpMoveTop:           "move_top",
	OpMoveBottom:        "move_bottom",
	OpInsertChar:        "insert_char",
	OpReplaceChar:       "replace_char",
	OpInsertText:        "insert_text",
	OpPasteTextBlock:    "paste_text_block",
	OpMergeText:         "merge_text",
	OpSetContent:        "set_content",
	OpUndo:              "undo",
	OpRedo:              "redo",
	OpBumpHistory:       "bump_history",
	OpSetSelection:      "set_selection",
	OpSetSelectionStart: "set_selection_start",
	OpSetSelectionEnd:   "set_selection_end",
	OpSelectAll:         "select_all",
	OpClearSelection:    "clear_selection",
	OpSetPosition:       "set_position",
	OpSelectionMode:     "selection_mode",
	OpVirtualEdit:       "virtual_edit",
	OpDeleteSelection:   "delete_selection",
}

var opsByName = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		m[name] = op
	}
	return m
}()

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp resolves a command name such as "move_up". Only commands that
// need no argument can be built from a name alone.
func ParseOp(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}

// Command is one request to a TextEdit. Which fields matter depends on Op.
type Command struct {
	Op   Op
	Char rune
	Text string
	Pos  textbuf.Position
	End  textbuf.Position
	Mode selection.Mode
	On   bool
}

func (c Command) String() string {
	switch c.Op {
	case OpInsertChar, OpReplaceChar:
		return fmt.Sprintf("%s(%q)", c.Op, c.Char)
	case OpInsertText, OpPasteTextBlock, OpMergeText, OpSetContent:
		return fmt.Sprintf("%s(%d bytes)", c.Op, len(c.Text))
	case OpSetPosition, OpSetSelectionStart, OpSetSelectionEnd:
		return fmt.Sprintf("%s(%d,%d)", c.Op, c.Pos.X, c.Pos.Y)
	case OpSetSelection:
		return fmt.Sprintf("%s(%d,%d-%d,%d)", c.Op, c.Pos.X, c.Pos.Y, c.End.X, c.End.Y)
	default:
		return c.Op.String()
	}
}

func IndentForward() Command { return Command{Op: OpIndentForward} }
func BreakLine() Command     { return Command{Op: OpBreakLine} }
func DeleteBack() Command    { return Command{Op: OpDeleteBack} }
func DeleteForward() Command { return Command{Op: OpDeleteForward} }
func MoveUp() Command        { return Command{Op: OpMoveUp} }
func MoveDown() Command      { return Command{Op: OpMoveDown} }
func MoveLeft() Command      { return Command{Op: OpMoveLeft} }
func MoveRight() Command     { return Command{Op: OpMoveRight} }
func MoveStart() Command     { return Command{Op: OpMoveStart} }
func MoveEnd() Command       { return Command{Op: OpMoveEnd} }
func MoveTop() Command       { return Command{Op: OpMoveTop} }
func MoveBottom() Command    { return Command{Op: OpMoveBottom} }
func Undo() Command          { return Command{Op: OpUndo} }
func Redo() Command          { return Command{Op: OpRedo} }
func BumpHistory() Command   { return Command{Op: OpBumpHistory} }
func SelectAll() Command     { return Command{Op: OpSelectAll} }
func ClearSelection() Command {
	return Command{Op: OpClearSelection}
}
func DeleteSelection() Command {
	return Command{Op: OpDeleteSelection}
}

func InsertChar(ch rune) Command  { return Command{Op: OpInsertChar, Char: ch} }
func ReplaceChar(ch rune) Command { return Command{Op: OpReplaceChar, Char: ch} }

func InsertText(text string) Command     { return Command{Op: OpInsertText, Text: text} }
func PasteTextBlock(text string) Command { return Command{Op: OpPasteTextBlock, Text: text} }
func MergeText(text string) Command      { return Command{Op: OpMergeText, Text: text} }
func SetContent(text string) Command     { return Command{Op: OpSetContent, Text: text} }

func SetPosition(p textbuf.Position) Command {
	return Command{Op: OpSetPosition, Pos: p}
}

func SetSelection(start, end textbuf.Position) Command {
	return Command{Op: OpSetSelection, Pos: start, End: end}
}

func SetSelectionStart(p textbuf.Position) Command {
	return Command{Op: OpSetSelectionStart, Pos: p}
}

func SetSelectionEnd(p textbuf.Position) Command {
	return Command{Op: OpSetSelectionEnd, Pos: p}
}

func SelectionMode(m selection.Mode) Command {
	return Command{Op: OpSelectionMode, Mode: m}
}

func VirtualEdit(on bool) Command {
	return Command{Op: OpVirtualEdit, On: on}
}
