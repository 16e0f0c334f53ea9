// Package selection models the optional two-endpoint selection of an
// editing session and answers which grid positions it covers.
package selection

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/gridedit/internal/textbuf"
)

// Mode is the geometry a selection is interpreted with.
type Mode int

const (
	// Linear selections run through line breaks like a text stream.
	Linear Mode = iota
	// Block selections are rectangles of rows by columns.
	Block
)

func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Block:
		return "block"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return Linear, nil
	case "block":
		return Block, nil
	default:
		return Linear, fmt.Errorf("unknown selection mode %q", s)
	}
}

// Selection holds two unordered endpoints, either of which may be unset.
// Endpoints are kept exactly as given; edits to the buffer do not move them.
type Selection struct {
	start    textbuf.Position
	end      textbuf.Position
	hasStart bool
	hasEnd   bool
	mode     Mode
}

func New(mode Mode) Selection {
	return Selection{mode: mode}
}

func (s *Selection) SetStart(p textbuf.Position) {
	s.start = p
	s.hasStart = true
}

func (s *Selection) SetEnd(p textbuf.Position) {
	s.end = p
	s.hasEnd = true
}

func (s *Selection) Set(start, end textbuf.Position) {
	s.SetStart(start)
	s.SetEnd(end)
}

// Clear drops both endpoints; the mode is kept.
func (s *Selection) Clear() {
	s.start, s.end = textbuf.Position{}, textbuf.Position{}
	s.hasStart, s.hasEnd = false, false
}

func (s Selection) Start() (textbuf.Position, bool) { return s.start, s.hasStart }
func (s Selection) End() (textbuf.Position, bool)   { return s.end, s.hasEnd }

func (s Selection) Mode() Mode { return s.mode }

func (s *Selection) SetMode(m Mode) { s.mode = m }

// Active reports whether both endpoints are set.
func (s Selection) Active() bool {
	return s.hasStart && s.hasEnd
}

// Normalized orders the endpoints for the selection's mode: lexicographic
// by (row, column) for Linear, per-axis min/max corners for Block.
func (s Selection) Normalized() (textbuf.Position, textbuf.Position, bool) {
	if !s.Active() {
		return textbuf.Position{}, textbuf.Position{}, false
	}
	if s.mode == Block {
		lo, hi := blockCorners(s.start, s.end)
		return lo, hi, true
	}
	start, end := linearOrder(s.start, s.end)
	return start, end, true
}

func linearOrder(a, b textbuf.Position) (textbuf.Position, textbuf.Position) {
	if a.Y > b.Y || (a.Y == b.Y && a.X > b.X) {
		return b, a
	}
	return a, b
}

func blockCorners(a, b textbuf.Position) (textbuf.Position, textbuf.Position) {
	return textbuf.Position{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		textbuf.Position{X: max(a.X, b.X), Y: max(a.Y, b.Y)}
}

// IsSelectedInLinearMode treats both endpoints as inclusive.
func (s Selection) IsSelectedInLinearMode(p textbuf.Position) bool {
	if !s.Active() {
		return false
	}
	start, end := linearOrder(s.start, s.end)
	if p.Y < start.Y || p.Y > end.Y {
		return false
	}
	if start.Y == end.Y {
		return p.X >= start.X && p.X <= end.X
	}
	switch p.Y {
	case start.Y:
		return p.X >= start.X
	case end.Y:
		return p.X <= end.X
	default:
		return true
	}
}

func (s Selection) IsSelectedInBlockMode(p textbuf.Position) bool {
	if !s.Active() {
		return false
	}
	lo, hi := blockCorners(s.start, s.end)
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// IsSelected dispatches on the selection's mode.
func (s Selection) IsSelected(p textbuf.Position) bool {
	if s.mode == Block {
		return s.IsSelectedInBlockMode(p)
	}
	return s.IsSelectedInLinearMode(p)
}
