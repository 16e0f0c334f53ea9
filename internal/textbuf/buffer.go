package textbuf

import (
	"strings"
)

// TextBuffer is a grid of cells addressed by display column and line.
//
// Every operation is total: reads outside the content return zero values
// and writes outside the content pad the grid with blank lines and blank
// cells first. The cursor may sit beyond the content, which is how virtual
// editing is expressed.
type TextBuffer struct {
	lines  [][]Cell
	cursor Position
}

// New splits text into lines on '\n' (CRLF is accepted) with the cursor at
// the origin.
func New(text string) *TextBuffer {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]Cell, len(parts))
	for i, p := range parts {
		lines[i] = cellsFromString(p)
	}
	return &TextBuffer{lines: lines}
}

// Content joins all lines with '\n'.
func (b *TextBuffer) Content() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range line {
			sb.WriteRune(c.Char)
		}
	}
	return sb.String()
}

func (b *TextBuffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, line := range b.lines {
		out[i] = cellsString(line)
	}
	return out
}

// Line returns the text of line y, or "" when y is outside the content.
func (b *TextBuffer) Line(y int) string {
	if y < 0 || y >= len(b.lines) {
		return ""
	}
	return cellsString(b.lines[y])
}

// Cells returns a copy of line y.
func (b *TextBuffer) Cells(y int) []Cell {
	if y < 0 || y >= len(b.lines) {
		return nil
	}
	return append([]Cell(nil), b.lines[y]...)
}

func (b *TextBuffer) LineCount() int {
	return len(b.lines)
}

// LineWidth is the display width of line y (0 for missing lines).
func (b *TextBuffer) LineWidth(y int) int {
	if y < 0 || y >= len(b.lines) {
		return 0
	}
	return lineWidth(b.lines[y])
}

func (b *TextBuffer) Cursor() Position {
	return b.cursor
}

// SetCursor places the cursor without any clamping.
func (b *TextBuffer) SetCursor(p Position) {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	b.cursor = p
}

// ColumnIndex translates display column x on line y into a cell index.
// ok is false when the line does not exist, when x falls strictly inside a
// wide cell, or when x is at or beyond the end of the line.
//
// Zero-width cells (combining marks) belong to the cell before them and
// own no column, so the index is that of the first visible cell at x.
func (b *TextBuffer) ColumnIndex(x, y int) (int, bool) {
	if y < 0 || y >= len(b.lines) || x < 0 {
		return 0, false
	}
	col := 0
	for i, c := range b.lines[y] {
		if col > x {
			return 0, false
		}
		if col == x && c.Width > 0 {
			return i, true
		}
		col += c.Width
	}
	return 0, false
}

// cellAt finds the visible cell whose span covers column x. start is the
// column the cell begins at. ok is false when x is beyond the line.
func (b *TextBuffer) cellAt(x, y int) (idx, start int, ok bool) {
	if y < 0 || y >= len(b.lines) || x < 0 {
		return 0, 0, false
	}
	col := 0
	for i, c := range b.lines[y] {
		if c.Width > 0 && x < col+c.Width {
			return i, col, true
		}
		col += c.Width
	}
	return 0, 0, false
}

// markIndex finds the last zero-width cell starting at column x: the
// newest mark on the cell that ends there.
func (b *TextBuffer) markIndex(x, y int) (int, bool) {
	if y < 0 || y >= len(b.lines) || x < 0 {
		return 0, false
	}
	found := -1
	col := 0
	for i, c := range b.lines[y] {
		if col > x {
			break
		}
		if col == x && c.Width == 0 {
			found = i
		}
		col += c.Width
	}
	return found, found >= 0
}

// SnapColumn moves x back to the start of the cell covering it. Columns at
// or beyond the end of the line are returned unchanged.
func (b *TextBuffer) SnapColumn(x, y int) int {
	if _, start, ok := b.cellAt(x, y); ok {
		return start
	}
	return x
}

// insertionIndex resolves where a new cell at column x goes: the exact cell
// boundary when there is one, the covering cell when x is inside a wide
// cell, or the end of the line. Marks already at x stay with the cell
// before them.
func (b *TextBuffer) insertionIndex(x, y int) int {
	if idx, ok := b.ColumnIndex(x, y); ok {
		return idx
	}
	if idx, _, ok := b.cellAt(x, y); ok {
		return idx
	}
	return len(b.lines[y])
}

func (b *TextBuffer) ensureLine(y int) {
	for len(b.lines) <= y {
		b.lines = append(b.lines, []Cell{})
	}
}

// ensureWidth pads line y with blanks until it is at least width columns wide.
func (b *TextBuffer) ensureWidth(width, y int) {
	b.ensureLine(y)
	line := b.lines[y]
	for w := lineWidth(line); w < width; w++ {
		line = append(line, blank)
	}
	b.lines[y] = line
}

// InsertChar inserts ch so that it starts at column x of line y, padding
// the grid up to that column first. Cells after it shift right.
func (b *TextBuffer) InsertChar(x, y int, ch rune) {
	if x < 0 || y < 0 {
		return
	}
	b.ensureWidth(x, y)
	idx := b.insertionIndex(x, y)
	line := b.lines[y]
	line = append(line, Cell{})
	copy(line[idx+1:], line[idx:])
	line[idx] = NewCell(ch)
	b.lines[y] = line
}

// ReplaceChar overwrites the cell covering column x and returns the
// character it held. The grid is padded so the cell always exists.
func (b *TextBuffer) ReplaceChar(x, y int, ch rune) rune {
	if x < 0 || y < 0 {
		return 0
	}
	b.ensureWidth(x+1, y)
	idx, _, ok := b.cellAt(x, y)
	if !ok {
		return 0
	}
	old := b.lines[y][idx].Char
	b.lines[y][idx] = NewCell(ch)
	return old
}

// DeleteChar removes the cell covering column x. ok is false when there is
// nothing there, in which case the buffer is unchanged.
func (b *TextBuffer) DeleteChar(x, y int) (rune, bool) {
	idx, _, ok := b.cellAt(x, y)
	if !ok {
		return 0, false
	}
	line := b.lines[y]
	ch := line[idx].Char
	b.lines[y] = append(line[:idx], line[idx+1:]...)
	return ch, true
}

// MarkAt returns the newest zero-width character attached at column x.
func (b *TextBuffer) MarkAt(x, y int) (rune, bool) {
	idx, ok := b.markIndex(x, y)
	if !ok {
		return 0, false
	}
	return b.lines[y][idx].Char, true
}

// DeleteMark removes the zero-width character MarkAt would return.
func (b *TextBuffer) DeleteMark(x, y int) (rune, bool) {
	idx, ok := b.markIndex(x, y)
	if !ok {
		return 0, false
	}
	line := b.lines[y]
	ch := line[idx].Char
	b.lines[y] = append(line[:idx], line[idx+1:]...)
	return ch, true
}

// CharAt returns the character covering column x of line y.
func (b *TextBuffer) CharAt(x, y int) (rune, bool) {
	idx, _, ok := b.cellAt(x, y)
	if !ok {
		return 0, false
	}
	return b.lines[y][idx].Char, true
}

// BreakLine splits line p.Y at column p.X; the tail becomes a new line
// below. Breaking beyond the content still inserts an (empty) line.
func (b *TextBuffer) BreakLine(p Position) {
	if p.X < 0 || p.Y < 0 {
		return
	}
	b.ensureLine(p.Y)
	line := b.lines[p.Y]
	idx := b.insertionIndex(p.X, p.Y)

	head := append([]Cell(nil), line[:idx]...)
	tail := append([]Cell(nil), line[idx:]...)

	lines := make([][]Cell, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:p.Y]...)
	lines = append(lines, head, tail)
	lines = append(lines, b.lines[p.Y+1:]...)
	b.lines = lines
}

// JoinLine appends line p.Y+1 onto line p.Y and removes it. It reports
// false when there is no next line.
func (b *TextBuffer) JoinLine(p Position) bool {
	if p.Y < 0 || p.Y+1 >= len(b.lines) {
		return false
	}
	merged := append(b.lines[p.Y], b.lines[p.Y+1]...)

	lines := make([][]Cell, 0, len(b.lines)-1)
	lines = append(lines, b.lines[:p.Y]...)
	lines = append(lines, merged)
	lines = append(lines, b.lines[p.Y+2:]...)
	b.lines = lines
	return true
}

// NumberlineWide is the number of digits of the last line number.
func (b *TextBuffer) NumberlineWide() int {
	n := len(b.lines)
	if n < 1 {
		n = 1
	}
	digits := 0
	for ; n > 0; n /= 10 {
		digits++
	}
	return digits
}
