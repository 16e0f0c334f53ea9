package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/gridedit/internal/config"
	"github.com/kobzarvs/gridedit/internal/editor"
	"github.com/kobzarvs/gridedit/internal/logger"
	"github.com/kobzarvs/gridedit/internal/session"
	"github.com/kobzarvs/gridedit/internal/syntax"
)

const maxHighlightBytes = 8 << 20

// App is the top-level runtime for gridedit.
type App struct {
	args  []string
	debug bool
}

func New(args []string, debug bool) *App {
	return &App{args: args, debug: debug}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	if err := logger.Init(a.debug); err != nil {
		return err
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	path, text, err := a.readFile()
	if err != nil {
		return err
	}
	theme := syntax.NewTheme(cfg.Theme)
	var h editor.Highlighter
	if path != "" && len(text) <= maxHighlightBytes {
		h = syntax.ForFile(path, langs, cfg.Editor, theme)
	}
	if ts, ok := h.(*syntax.TreeSitter); ok {
		defer ts.Close()
	}
	view := NewView(path, text, cfg, theme, h, newSystemClipboard())

	sm, err := session.NewManager()
	if err != nil {
		logger.Warn("session disabled", "error", err)
	}
	absPath := ""
	if path != "" {
		if absPath, err = filepath.Abs(path); err != nil {
			absPath = path
		}
	}
	if sm != nil {
		defer func() {
			if absPath != "" {
				sm.SetFileState(absPath, view.FileState())
			}
			if err := sm.Stop(); err != nil {
				logger.Warn("session save failed", "error", err)
			}
		}()
		if st, ok := sm.GetFileState(absPath); ok && absPath != "" {
			view.RestoreState(st)
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	stopTicker := make(chan struct{})
	defer close(stopTicker)
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopTicker:
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	view.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if view.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			view.HandleMouse(ev)
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if !view.Tick(time.Now()) {
				continue
			}
		}
		view.Render(s)
	}
}

// readFile loads the first argument. A path that does not exist yet opens
// as an empty buffer and is created on save.
func (a *App) readFile() (string, string, error) {
	if len(a.args) == 0 {
		return "", "", nil
	}
	path := a.args[0]
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("new file", "path", path)
		return path, "", nil
	}
	if err != nil {
		return "", "", err
	}
	logger.Info("file opened", "path", path, "bytes", len(data))
	return path, strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// expandTabs replaces tabs with spaces up to the next tab stop. The grid
// gives every cell a fixed display width, which a tab does not have.
func expandTabs(text string, tabWidth int) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}
	if tabWidth < 1 {
		tabWidth = 1
	}
	var b strings.Builder
	b.Grow(len(text))
	col := 0
	for _, r := range text {
		switch r {
		case '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}
