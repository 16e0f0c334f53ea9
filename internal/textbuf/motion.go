package textbuf

// Cursor motion comes in two families. The plain variants roam freely past
// the end of lines and below the last line (virtual editing); the Clamped
// variants keep the cursor on existing text. Both always land on a cell
// boundary when the cursor is inside the content.

func (b *TextBuffer) prevBoundary(x, y int) int {
	if x <= 0 {
		return 0
	}
	if _, start, ok := b.cellAt(x-1, y); ok {
		return start
	}
	return x - 1
}

func (b *TextBuffer) nextBoundary(x, y int) int {
	if idx, start, ok := b.cellAt(x, y); ok {
		return start + b.lines[y][idx].Width
	}
	return x + 1
}

func (b *TextBuffer) MoveLeft() {
	b.cursor.X = b.prevBoundary(b.cursor.X, b.cursor.Y)
}

func (b *TextBuffer) MoveRight() {
	b.cursor.X = b.nextBoundary(b.cursor.X, b.cursor.Y)
}

func (b *TextBuffer) MoveUp() {
	if b.cursor.Y > 0 {
		b.cursor.Y--
	}
}

func (b *TextBuffer) MoveDown() {
	b.cursor.Y++
}

func (b *TextBuffer) MoveLeftClamped() {
	b.cursor = b.ClampPosition(b.cursor)
	b.cursor.X = b.prevBoundary(b.cursor.X, b.cursor.Y)
}

func (b *TextBuffer) MoveRightClamped() {
	b.cursor = b.ClampPosition(b.cursor)
	if b.cursor.X >= b.LineWidth(b.cursor.Y) {
		return
	}
	b.cursor.X = b.nextBoundary(b.cursor.X, b.cursor.Y)
}

func (b *TextBuffer) MoveUpClamped() {
	if b.cursor.Y > 0 {
		b.cursor.Y--
	}
	b.cursor = b.ClampPosition(b.cursor)
}

func (b *TextBuffer) MoveDownClamped() {
	if b.cursor.Y+1 < len(b.lines) {
		b.cursor.Y++
	}
	b.cursor = b.ClampPosition(b.cursor)
}

// MoveStart puts the cursor at column 0 of its line.
func (b *TextBuffer) MoveStart() {
	b.cursor.X = 0
}

// MoveEnd puts the cursor just after the last cell of its line.
func (b *TextBuffer) MoveEnd() {
	b.cursor.X = b.LineWidth(b.cursor.Y)
}

func (b *TextBuffer) MoveTop() {
	b.cursor = Position{}
}

func (b *TextBuffer) MoveBottom() {
	last := len(b.lines) - 1
	if last < 0 {
		last = 0
	}
	b.cursor = Position{X: b.LineWidth(last), Y: last}
}

// ClampPosition confines p to existing lines and columns and snaps it to
// the start of the cell it points into.
func (b *TextBuffer) ClampPosition(p Position) Position {
	if p.Y < 0 {
		p.Y = 0
	}
	if last := len(b.lines) - 1; p.Y > last {
		p.Y = last
		if p.Y < 0 {
			p.Y = 0
		}
	}
	if p.X < 0 {
		p.X = 0
	}
	if w := b.LineWidth(p.Y); p.X > w {
		p.X = w
	}
	p.X = b.SnapColumn(p.X, p.Y)
	return p
}

// SetCursorClamped places the cursor at the nearest position on existing text.
func (b *TextBuffer) SetCursorClamped(p Position) {
	b.cursor = b.ClampPosition(p)
}
