package textbuf

import (
	"strings"
	"unicode"
)

// Replacement describes one cell overwritten by a block paste or merge.
type Replacement struct {
	Pos Position
	Old rune
	New rune
}

// Linear ranges run from start to end through line breaks; block ranges
// take the same column span from every row. In both geometries the end
// column is inclusive and the endpoints may be given in any order.

func normalizeLinear(start, end Position) (Position, Position) {
	if start.Y > end.Y || (start.Y == end.Y && start.X > end.X) {
		start, end = end, start
	}
	return clampNonNegative(start), clampNonNegative(end)
}

func normalizeBlock(start, end Position) (Position, Position) {
	lo := Position{X: min(start.X, end.X), Y: min(start.Y, end.Y)}
	hi := Position{X: max(start.X, end.X), Y: max(start.Y, end.Y)}
	return clampNonNegative(lo), clampNonNegative(hi)
}

func clampNonNegative(p Position) Position {
	return Position{X: max(p.X, 0), Y: max(p.Y, 0)}
}

// span returns the cell index range [i, j) of cells that overlap columns
// [from, to]. to < 0 means "to the end of the line". Zero-width cells go
// with the cell before them; only a leading one at column 0 stands alone.
func span(line []Cell, from, to int) (int, int) {
	i, j := len(line), len(line)
	col := 0
	for k, c := range line {
		if to >= 0 && col > to && c.Width > 0 {
			j = k
			break
		}
		if i == len(line) {
			if c.Width > 0 && col+c.Width > from {
				i = k
			} else if c.Width == 0 && (col > from || (k == 0 && from == 0)) {
				i = k
			}
		}
		col += c.Width
	}
	if j < i {
		j = i
	}
	return i, j
}

// linearBounds clamps a normalised linear range to the existing lines. ok
// is false when the range starts below the content.
func (b *TextBuffer) linearBounds(start, end Position) (Position, Position, bool) {
	if start.Y >= len(b.lines) {
		return start, end, false
	}
	if end.Y >= len(b.lines) {
		end = Position{X: -1, Y: len(b.lines) - 1}
	}
	return start, end, true
}

func (b *TextBuffer) GetTextInLinearMode(start, end Position) string {
	start, end = normalizeLinear(start, end)
	start, end, ok := b.linearBounds(start, end)
	if !ok {
		return ""
	}
	return b.linearText(start, end)
}

func (b *TextBuffer) linearText(start, end Position) string {
	if start.Y == end.Y {
		line := b.lines[start.Y]
		i, j := span(line, start.X, end.X)
		return cellsString(line[i:j])
	}
	parts := make([]string, 0, end.Y-start.Y+1)
	first := b.lines[start.Y]
	i, _ := span(first, start.X, -1)
	parts = append(parts, cellsString(first[i:]))
	for y := start.Y + 1; y < end.Y; y++ {
		parts = append(parts, cellsString(b.lines[y]))
	}
	last := b.lines[end.Y]
	_, j := span(last, 0, end.X)
	parts = append(parts, cellsString(last[:j]))
	return strings.Join(parts, "\n")
}

// CutTextInLinearMode removes and returns exactly the text
// GetTextInLinearMode would return for the same range.
func (b *TextBuffer) CutTextInLinearMode(start, end Position) string {
	start, end = normalizeLinear(start, end)
	start, end, ok := b.linearBounds(start, end)
	if !ok {
		return ""
	}
	text := b.linearText(start, end)
	if start.Y == end.Y {
		line := b.lines[start.Y]
		i, j := span(line, start.X, end.X)
		b.lines[start.Y] = append(line[:i], line[j:]...)
		return text
	}
	first := b.lines[start.Y]
	i, _ := span(first, start.X, -1)
	last := b.lines[end.Y]
	_, j := span(last, 0, end.X)

	merged := append(append([]Cell(nil), first[:i]...), last[j:]...)
	lines := make([][]Cell, 0, len(b.lines)-(end.Y-start.Y))
	lines = append(lines, b.lines[:start.Y]...)
	lines = append(lines, merged)
	lines = append(lines, b.lines[end.Y+1:]...)
	b.lines = lines
	return text
}

// Covered returns the cells of line y that overlap columns [from, to] and
// the column the first of them starts at. to < 0 means the end of the line.
func (b *TextBuffer) Covered(y, from, to int) (int, []Cell) {
	if y < 0 || y >= len(b.lines) {
		return 0, nil
	}
	line := b.lines[y]
	i, j := span(line, max(from, 0), to)
	return lineWidth(line[:i]), append([]Cell(nil), line[i:j]...)
}

func (b *TextBuffer) blockRow(y, from, to int) string {
	if y < len(b.lines) {
		line := b.lines[y]
		if i, j := span(line, from, to); i < j {
			return cellsString(line[i:j])
		}
	}
	return strings.Repeat(" ", to-from+1)
}

func (b *TextBuffer) GetTextInBlockMode(start, end Position) string {
	start, end = normalizeBlock(start, end)
	rows := make([]string, 0, end.Y-start.Y+1)
	for y := start.Y; y <= end.Y; y++ {
		rows = append(rows, b.blockRow(y, start.X, end.X))
	}
	return strings.Join(rows, "\n")
}

// CutTextInBlockMode drains the column range from every row independently;
// rows never move relative to each other.
func (b *TextBuffer) CutTextInBlockMode(start, end Position) string {
	start, end = normalizeBlock(start, end)
	text := b.GetTextInBlockMode(start, end)
	for y := start.Y; y <= end.Y && y < len(b.lines); y++ {
		line := b.lines[y]
		i, j := span(line, start.X, end.X)
		b.lines[y] = append(line[:i], line[j:]...)
	}
	return text
}

// PasteTextInBlockMode overwrites the grid with text starting at the
// cursor: line k of text lands on cursor row + k, each character advancing
// by its own width. Nothing is inserted; the grid is padded as needed.
func (b *TextBuffer) PasteTextInBlockMode(text string) []Replacement {
	return b.overlay(text, false)
}

// MergeText overlays text at the cursor like PasteTextInBlockMode but
// leaves the grid untouched where the source character is blank.
func (b *TextBuffer) MergeText(text string) []Replacement {
	return b.overlay(text, true)
}

func (b *TextBuffer) overlay(text string, skipBlank bool) []Replacement {
	var out []Replacement
	origin := b.cursor
	for k, line := range strings.Split(text, "\n") {
		y := origin.Y + k
		x := origin.X
		for _, r := range line {
			w := max(NewCell(r).Width, 1)
			if skipBlank && unicode.IsSpace(r) {
				x += w
				continue
			}
			at := b.SnapColumn(x, y)
			old := b.ReplaceChar(at, y, r)
			out = append(out, Replacement{Pos: Position{X: at, Y: y}, Old: old, New: r})
			x = at + w
		}
	}
	return out
}
