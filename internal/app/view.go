package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/gridedit/internal/config"
	"github.com/kobzarvs/gridedit/internal/editor"
	"github.com/kobzarvs/gridedit/internal/logger"
	"github.com/kobzarvs/gridedit/internal/selection"
	"github.com/kobzarvs/gridedit/internal/session"
	"github.com/kobzarvs/gridedit/internal/syntax"
	"github.com/kobzarvs/gridedit/internal/textbuf"
	"github.com/kobzarvs/gridedit/internal/textedit"
)

const statusTTL = 3 * time.Second

type LineNumberMode int

const (
	LineNumberAbsolute LineNumberMode = iota
	LineNumberRelative
	LineNumberOff
)

type msgKind int

const (
	msgContent msgKind = iota
	msgTouched
)

// message is what the editor's subscribers hand back to the view.
type message struct {
	kind    msgKind
	content string
}

// bindableOps are the commands a keymap entry may name directly. The value
// reports whether the command edits text.
var bindableOps = map[textedit.Op]bool{
	textedit.OpIndentForward:   true,
	textedit.OpBreakLine:       true,
	textedit.OpDeleteBack:      true,
	textedit.OpDeleteForward:   true,
	textedit.OpDeleteSelection: true,
	textedit.OpMoveUp:          false,
	textedit.OpMoveDown:        false,
	textedit.OpMoveLeft:        false,
	textedit.OpMoveRight:       false,
	textedit.OpMoveStart:       false,
	textedit.OpMoveEnd:         false,
	textedit.OpMoveTop:         false,
	textedit.OpMoveBottom:      false,
	textedit.OpUndo:            false,
	textedit.OpRedo:            false,
	textedit.OpBumpHistory:     false,
	textedit.OpSelectAll:       false,
	textedit.OpClearSelection:  false,
}

var selectMotions = map[string]textedit.Command{
	"select_left":   textedit.MoveLeft(),
	"select_right":  textedit.MoveRight(),
	"select_up":     textedit.MoveUp(),
	"select_down":   textedit.MoveDown(),
	"select_start":  textedit.MoveStart(),
	"select_end":    textedit.MoveEnd(),
	"select_top":    textedit.MoveTop(),
	"select_bottom": textedit.MoveBottom(),
}

func isMotion(op textedit.Op) bool {
	return op >= textedit.OpMoveUp && op <= textedit.OpMoveBottom
}

// View draws one editor onto a tcell screen and turns terminal events into
// editor commands.
type View struct {
	ed     *editor.Editor[message]
	theme  *syntax.Theme
	keymap config.Keymap
	clip   Clipboard

	path     string
	tabWidth int
	saved    string
	dirty    bool

	lineNumbers LineNumberMode
	overwrite   bool

	scrollY    int
	scrollX    int
	viewHeight int
	viewWidth  int
	freeScroll bool

	lastEdit bool
	dragging bool
	anchor   textbuf.Position

	status   string
	statusAt time.Time
}

// NewView builds the editor for text. clip may be nil, in which case the
// view keeps its own register.
func NewView(path, text string, cfg config.Config, theme *syntax.Theme, h editor.Highlighter, clip Clipboard) *View {
	mode, err := selection.ParseMode(cfg.Editor.SelectionMode)
	if err != nil {
		logger.Warn("invalid selection mode, using linear", "error", err)
	}
	ed := editor.New[message](expandTabs(text, cfg.Editor.TabWidth), textedit.Options{
		HistorySize:   cfg.Editor.HistorySize,
		IndentWidth:   cfg.Editor.IndentWidth,
		VirtualEdit:   cfg.Editor.VirtualEdit,
		SelectionMode: mode,
	}, h)
	ed.SetDefaultStyle(theme.Default)
	if clip == nil {
		clip = &memoryClipboard{}
	}
	v := &View{
		ed:          ed,
		theme:       theme,
		keymap:      cfg.Keymap,
		clip:        clip,
		path:        path,
		tabWidth:    cfg.Editor.TabWidth,
		saved:       ed.Content(),
		lineNumbers: parseLineNumberMode(cfg.Editor.LineNumbers),
	}
	ed.OnChange(func(content string) message {
		return message{kind: msgContent, content: content}
	})
	ed.OnChangeNotify(func() message {
		return message{kind: msgTouched}
	})
	return v
}

func (v *View) Editor() *editor.Editor[message] { return v.ed }
func (v *View) Dirty() bool                     { return v.dirty }
func (v *View) Status() string                  { return v.status }

func (v *View) setStatus(msg string) {
	v.status = msg
	v.statusAt = time.Now()
}

// Tick expires the status message and reports whether a redraw is needed.
func (v *View) Tick(now time.Time) bool {
	if v.status == "" || now.Sub(v.statusAt) < statusTTL {
		return false
	}
	v.status = ""
	return true
}

func (v *View) apply(msgs []message) {
	for _, m := range msgs {
		switch m.kind {
		case msgContent:
			v.dirty = m.content != v.saved
		case msgTouched:
			v.status = ""
		}
	}
}

// exec runs cmds as one batch. The first edit after anything else starts
// a new undo step.
func (v *View) exec(edit bool, cmds ...textedit.Command) {
	if edit && !v.lastEdit {
		cmds = append([]textedit.Command{textedit.BumpHistory()}, cmds...)
	}
	v.lastEdit = edit
	v.apply(v.ed.ProcessCommands(cmds...))
}

// HandleKey reports true when the key asks the application to quit.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	v.freeScroll = false
	if action, ok := v.keymap[keyString(ev)]; ok {
		return v.runAction(action)
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		v.typeRune(ev.Rune())
	}
	return false
}

func (v *View) typeRune(r rune) {
	var cmds []textedit.Command
	if v.ed.Selection().Active() {
		cmds = append(cmds, textedit.DeleteSelection())
	}
	if v.overwrite {
		cmds = append(cmds, textedit.ReplaceChar(r))
	} else {
		cmds = append(cmds, textedit.InsertChar(r))
	}
	v.exec(true, cmds...)
}

func (v *View) runAction(action string) bool {
	if move, ok := selectMotions[action]; ok {
		v.extendSelection(move)
		return false
	}
	switch action {
	case "quit":
		return true
	case "save":
		v.save()
	case "copy":
		v.copySelection()
	case "cut":
		v.cutSelection()
	case "paste":
		v.paste(textedit.InsertText)
	case "paste_block":
		v.paste(textedit.PasteTextBlock)
	case "merge":
		v.paste(textedit.MergeText)
	case "toggle_selection_mode":
		mode := selection.Block
		if v.ed.Selection().Mode() == selection.Block {
			mode = selection.Linear
		}
		v.exec(false, textedit.SelectionMode(mode))
		v.setStatus("selection " + mode.String())
	case "toggle_virtual_edit":
		on := !v.ed.TextEdit().VirtualEditEnabled()
		v.exec(false, textedit.VirtualEdit(on))
		if on {
			v.setStatus("virtual edit on")
		} else {
			v.setStatus("virtual edit off")
		}
	case "toggle_line_numbers":
		v.toggleLineNumbers()
	case "toggle_overwrite":
		v.overwrite = !v.overwrite
	default:
		op, ok := textedit.ParseOp(action)
		edit, bindable := bindableOps[op]
		if !ok || !bindable {
			logger.Warn("unknown keymap action", "action", action)
			v.setStatus("unknown action: " + action)
			return false
		}
		cmds := []textedit.Command{{Op: op}}
		if isMotion(op) && v.ed.Selection().Active() {
			cmds = append([]textedit.Command{textedit.ClearSelection()}, cmds...)
		}
		v.exec(edit, cmds...)
	}
	return false
}

// extendSelection anchors a selection at the cursor if none is active,
// moves, and makes the new cursor cell the selection end.
func (v *View) extendSelection(move textedit.Command) {
	var cmds []textedit.Command
	if !v.ed.Selection().Active() {
		cmds = append(cmds, textedit.SetSelectionStart(v.ed.Position()))
	}
	v.exec(false, append(cmds, move)...)
	v.exec(false, textedit.SetSelectionEnd(v.ed.Position()))
}

func (v *View) toggleLineNumbers() {
	switch v.lineNumbers {
	case LineNumberAbsolute:
		v.lineNumbers = LineNumberRelative
		v.setStatus("line numbers relative")
	case LineNumberRelative:
		v.lineNumbers = LineNumberOff
		v.setStatus("line numbers off")
	default:
		v.lineNumbers = LineNumberAbsolute
		v.setStatus("line numbers absolute")
	}
}

func (v *View) copySelection() {
	text := v.ed.SelectedText()
	if text == "" {
		v.setStatus("nothing selected")
		return
	}
	if err := v.clip.WriteAll(text); err != nil {
		v.setStatus(err.Error())
		return
	}
	v.setStatus("copied")
}

func (v *View) cutSelection() {
	text, msgs := v.ed.CutSelectedText()
	if text == "" {
		v.setStatus("nothing selected")
		return
	}
	v.apply(msgs)
	v.lastEdit = false
	if err := v.clip.WriteAll(text); err != nil {
		v.setStatus(err.Error())
		return
	}
	v.setStatus("cut")
}

// paste inserts the clipboard through build as an undo step of its own.
func (v *View) paste(build func(string) textedit.Command) {
	text, err := v.clip.ReadAll()
	if err != nil {
		v.setStatus(err.Error())
		return
	}
	if text == "" {
		v.setStatus("clipboard empty")
		return
	}
	v.lastEdit = false
	v.exec(true, build(expandTabs(text, v.tabWidth)))
	v.lastEdit = false
}

func (v *View) save() {
	if v.path == "" {
		v.setStatus("no file name")
		return
	}
	content := v.ed.Content()
	if err := os.WriteFile(v.path, []byte(content), 0o644); err != nil {
		logger.Error("save failed", "path", v.path, "error", err)
		v.setStatus(err.Error())
		return
	}
	v.saved = content
	v.dirty = false
	v.setStatus("written " + filepath.Base(v.path))
	logger.Info("file saved", "path", v.path, "bytes", len(content))
}

func (v *View) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()
	switch {
	case btn == tcell.WheelUp:
		v.scrollBy(-3)
	case btn == tcell.WheelDown:
		v.scrollBy(3)
	case btn&tcell.Button1 != 0:
		if y >= v.viewHeight {
			return
		}
		v.freeScroll = false
		pos := v.screenToBuffer(x, y)
		if !v.dragging {
			v.dragging = true
			v.exec(false, textedit.ClearSelection(), textedit.SetPosition(pos))
			v.anchor = v.ed.Position()
			return
		}
		v.exec(false, textedit.SetPosition(pos))
		v.exec(false, textedit.SetSelection(v.anchor, v.ed.Position()))
	case btn == tcell.ButtonNone:
		v.dragging = false
	}
}

func (v *View) screenToBuffer(x, y int) textbuf.Position {
	col := x - v.gutterWidth() + v.scrollX
	if col < 0 {
		col = 0
	}
	return textbuf.Position{X: col, Y: y + v.scrollY}
}

func (v *View) scrollBy(lines int) {
	maxScroll := v.ed.TotalLines() - v.viewHeight + 5
	if maxScroll < 0 {
		maxScroll = 0
	}
	v.scrollY = min(max(v.scrollY+lines, 0), maxScroll)
	v.freeScroll = true
}

func (v *View) ensureCursorVisible() {
	pos := v.ed.Position()
	if v.viewHeight > 0 {
		// Far jumps center the cursor; short ones scroll to the edge.
		if pos.Y < v.scrollY-1 || pos.Y >= v.scrollY+v.viewHeight+1 {
			v.scrollY = max(pos.Y-v.viewHeight/2, 0)
		} else if pos.Y < v.scrollY {
			v.scrollY = pos.Y
		} else if pos.Y >= v.scrollY+v.viewHeight {
			v.scrollY = pos.Y - v.viewHeight + 1
		}
	}
	if v.viewWidth > 0 {
		if pos.X < v.scrollX {
			v.scrollX = pos.X
		} else if pos.X >= v.scrollX+v.viewWidth {
			v.scrollX = pos.X - v.viewWidth + 1
		}
	}
}

func (v *View) gutterWidth() int {
	if v.lineNumbers == LineNumberOff {
		return 0
	}
	return gutterWidth(v.ed.NumberlineWide())
}

func (v *View) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	statusY := h - 1
	viewHeight := h - 1
	gw := v.gutterWidth()
	if gw >= w {
		gw = 0
	}
	v.viewHeight = viewHeight
	v.viewWidth = w - gw
	if !v.freeScroll {
		v.ensureCursorVisible()
	}

	s.SetStyle(v.theme.Default)
	s.Clear()

	lines := v.ed.HighlightedLines()
	sel := v.ed.Selection()
	for y := 0; y < viewHeight; y++ {
		row := v.scrollY + y
		clearLine(s, y, w, v.theme.Default)
		var spans []editor.Span
		if row < len(lines) {
			spans = lines[row]
			v.drawGutter(s, y, gw, row)
		}
		v.drawRow(s, y, w, gw, row, spans, sel)
	}
	v.renderStatusline(s, w, statusY)

	pos := v.ed.Position()
	cx := gw + pos.X - v.scrollX
	cy := pos.Y - v.scrollY
	if cy < 0 || cy >= viewHeight || cx < gw || cx >= w {
		s.HideCursor()
		s.Show()
		return
	}
	cursorStyle := tcell.CursorStyleSteadyBar
	if v.overwrite {
		cursorStyle = tcell.CursorStyleSteadyBlock
	}
	s.SetCursorStyle(cursorStyle)
	s.ShowCursor(cx, cy)
	s.Show()
}

func (v *View) drawGutter(s tcell.Screen, y, gutterWidth, row int) {
	if gutterWidth == 0 {
		return
	}
	digits := gutterWidth - 2
	cursorRow := v.ed.Position().Y
	num := row + 1
	if v.lineNumbers == LineNumberRelative && row != cursorRow {
		num = row - cursorRow
		if num < 0 {
			num = -num
		}
	}
	style := v.theme.LineNumber
	if row == cursorRow {
		style = v.theme.LineNumberActive
	}
	for i, r := range fmt.Sprintf("%*d", digits, num) {
		if 1+i >= gutterWidth-1 {
			break
		}
		s.SetContent(1+i, y, r, nil, style)
	}
}

// drawRow places the cells of row by display column. Selected cells take
// the selection style; a block selection also paints the virtual columns
// past the line end, a linear one only the line break.
func (v *View) drawRow(s tcell.Screen, y, w, gutterWidth, row int, spans []editor.Span, sel selection.Selection) {
	cells := v.ed.TextEdit().Buffer().Cells(row)
	styles := spanStyles(spans, len(cells), v.theme.Default)
	col := 0
	for i, c := range cells {
		if c.Width == 0 {
			continue
		}
		x := gutterWidth + col - v.scrollX
		if x >= gutterWidth && x+c.Width <= w {
			style := styles[i]
			if sel.IsSelected(textbuf.Position{X: col, Y: row}) {
				style = v.theme.Selection
			}
			s.SetContent(x, y, c.Char, nil, style)
		}
		col += c.Width
	}
	if !sel.Active() {
		return
	}
	limit := w - gutterWidth + v.scrollX
	if sel.Mode() == selection.Linear {
		limit = min(limit, col+1)
	}
	for ; col < limit; col++ {
		x := gutterWidth + col - v.scrollX
		if x < gutterWidth {
			continue
		}
		if sel.IsSelected(textbuf.Position{X: col, Y: row}) {
			s.SetContent(x, y, ' ', nil, v.theme.Selection)
		}
	}
}

// spanStyles gives one style per rune of the line. Spans that do not
// cover the line exactly are ignored.
func spanStyles(spans []editor.Span, n int, def tcell.Style) []tcell.Style {
	styles := make([]tcell.Style, 0, n)
	for _, sp := range spans {
		for range sp.Text {
			styles = append(styles, sp.Style)
		}
	}
	if len(styles) == n {
		return styles
	}
	styles = styles[:0]
	for i := 0; i < n; i++ {
		styles = append(styles, def)
	}
	return styles
}

func (v *View) renderStatusline(s tcell.Screen, w, y int) {
	mode := strings.ToUpper(v.ed.Selection().Mode().String())
	if v.ed.TextEdit().VirtualEditEnabled() {
		mode += " VIRTUAL"
	}
	if v.overwrite {
		mode += " OVR"
	}
	name := "[No Name]"
	if v.path != "" {
		name = filepath.Base(v.path)
	}
	dirty := ""
	if v.dirty {
		dirty = "*"
	}
	left := fmt.Sprintf(" %s | %s%s ", mode, name, dirty)
	if v.status != "" {
		left = fmt.Sprintf(" %s | %s%s | %s ", mode, name, dirty, v.status)
	}
	pos := v.ed.Position()
	right := fmt.Sprintf(" Ln %d, Col %d ", pos.Y+1, pos.X+1)

	for x, r := range composeStatusLine(left, right, w) {
		s.SetContent(x, y, r, nil, v.theme.Statusline)
	}
}

// FileState captures what the session keeps for this file.
func (v *View) FileState() session.FileState {
	pos := v.ed.Position()
	sel := v.ed.Selection()
	st := session.FileState{
		CursorRow:     pos.Y,
		CursorCol:     pos.X,
		ScrollY:       v.scrollY,
		ScrollX:       v.scrollX,
		SelectionMode: sel.Mode().String(),
		VirtualEdit:   v.ed.TextEdit().VirtualEditEnabled(),
	}
	start, hasStart := sel.Start()
	end, hasEnd := sel.End()
	if hasStart && hasEnd {
		st.SelectionActive = true
		st.SelectionStartRow, st.SelectionStartCol = start.Y, start.X
		st.SelectionEndRow, st.SelectionEndCol = end.Y, end.X
	}
	return st
}

// RestoreState applies a saved FileState. Nothing here touches history.
func (v *View) RestoreState(st session.FileState) {
	mode, err := selection.ParseMode(st.SelectionMode)
	if err != nil {
		logger.Warn("session selection mode ignored", "error", err)
		mode = v.ed.Selection().Mode()
	}
	cmds := []textedit.Command{
		textedit.SelectionMode(mode),
		textedit.VirtualEdit(st.VirtualEdit),
		textedit.SetPosition(textbuf.Position{X: st.CursorCol, Y: st.CursorRow}),
	}
	if st.SelectionActive {
		cmds = append(cmds, textedit.SetSelection(
			textbuf.Position{X: st.SelectionStartCol, Y: st.SelectionStartRow},
			textbuf.Position{X: st.SelectionEndCol, Y: st.SelectionEndRow},
		))
	}
	v.exec(false, cmds...)
	v.scrollY = max(st.ScrollY, 0)
	v.scrollX = max(st.ScrollX, 0)
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func parseLineNumberMode(value string) LineNumberMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "relative", "rel":
		return LineNumberRelative
	case "off", "none", "false":
		return LineNumberOff
	default:
		return LineNumberAbsolute
	}
}

// gutterWidth is a leading space, the line number padded to at least two
// digits, and a trailing space.
func gutterWidth(digits int) int {
	if digits < 2 {
		digits = 2
	}
	return 1 + digits + 1
}

