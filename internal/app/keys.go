package app

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// keyString names a key event the way keymaps spell it: "ctrl+z",
// "shift+left", "alt+up", "enter". Printable runes without modifiers map
// to themselves.
func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	if mods&tcell.ModAlt != 0 {
		if ev.Key() == tcell.KeyRune {
			return "alt+" + strings.ToLower(string(ev.Rune()))
		}
		if name := navKeyName(ev.Key()); name != "" {
			if mods&tcell.ModShift != 0 {
				return "alt+shift+" + name
			}
			return "alt+" + name
		}
	}
	if mods&tcell.ModCtrl != 0 {
		switch ev.Key() {
		case tcell.KeyHome:
			return "ctrl+home"
		case tcell.KeyEnd:
			return "ctrl+end"
		case tcell.KeyLeft:
			return "ctrl+left"
		case tcell.KeyRight:
			return "ctrl+right"
		case tcell.KeyRune:
			return "ctrl+" + strings.ToLower(string(ev.Rune()))
		}
	}
	if mods&tcell.ModShift != 0 {
		if name := navKeyName(ev.Key()); name != "" {
			return "shift+" + name
		}
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	// KeyTab == KeyCtrlI, so Tab must be checked before ctrlKeyName.
	switch ev.Key() {
	case tcell.KeyTab:
		if mods&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	if name := navKeyName(ev.Key()); name != "" {
		return name
	}
	switch ev.Key() {
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyInsert:
		return "insert"
	case tcell.KeyEscape:
		return "esc"
	}
	if ev.Key() >= tcell.KeyF1 && ev.Key() <= tcell.KeyF12 {
		return "f" + strconv.Itoa(int(ev.Key()-tcell.KeyF1)+1)
	}
	return ""
}

func navKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}
