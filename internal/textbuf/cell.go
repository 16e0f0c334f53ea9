package textbuf

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell is one character of a line together with the number of screen
// columns it occupies. Width is fixed when the cell is created.
type Cell struct {
	Char  rune
	Width int
}

// blank is the padding cell used when writes land beyond the end of a line.
var blank = Cell{Char: ' ', Width: 1}

// NewCell measures r with runewidth. Combining marks get Width 0.
func NewCell(r rune) Cell {
	return Cell{Char: r, Width: runewidth.RuneWidth(r)}
}

// Position is a grid coordinate: X is a display column, Y a line index.
type Position struct {
	X int
	Y int
}

func cellsFromString(s string) []Cell {
	out := make([]Cell, 0, len(s))
	for _, r := range s {
		out = append(out, NewCell(r))
	}
	return out
}

func cellsString(cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteRune(c.Char)
	}
	return b.String()
}

func lineWidth(cells []Cell) int {
	w := 0
	for _, c := range cells {
		w += c.Width
	}
	return w
}

// DisplayWidth is the number of columns s occupies when rendered.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}
