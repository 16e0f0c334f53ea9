package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Keymap maps a key name (as produced by the terminal host, e.g. "ctrl+z",
// "shift+left") to an action name.
type Keymap map[string]string

type EditorOptions struct {
	TabWidth      int    `toml:"tab-width"`
	LineNumbers   string `toml:"line-numbers"`
	HistorySize   int    `toml:"history-size"`
	IndentWidth   int    `toml:"indent-width"`
	VirtualEdit   bool   `toml:"virtual-edit"`
	SelectionMode string `toml:"selection-mode"`
	Highlighter   string `toml:"highlighter"`
	ChromaStyle   string `toml:"chroma-style"`
}

type Theme struct {
	Theme                      string `toml:"theme"`
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	SelectionForeground        string `toml:"selection-foreground"`
	SelectionBackground        string `toml:"selection-background"`
	SyntaxKeyword              string `toml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number"`
	SyntaxConstant             string `toml:"syntax-constant"`
	SyntaxOperator             string `toml:"syntax-operator"`
	SyntaxPunctuation          string `toml:"syntax-punctuation"`
	SyntaxField                string `toml:"syntax-field"`
	SyntaxBuiltin              string `toml:"syntax-builtin"`
	SyntaxVariable             string `toml:"syntax-variable"`
	SyntaxParameter            string `toml:"syntax-parameter"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

const (
	HighlighterTreeSitter = "treesitter"
	HighlighterChroma     = "chroma"
	HighlighterNone       = "none"
)

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:      4,
			LineNumbers:   "absolute",
			HistorySize:   100,
			IndentWidth:   4,
			VirtualEdit:   false,
			SelectionMode: "linear",
			Highlighter:   HighlighterTreeSitter,
			ChromaStyle:   "theme",
		},
		Theme: Theme{
			Theme:                      "",
			Foreground:                 "#B3B1AD",
			Background:                 "#0A0E14",
			StatuslineForeground:       "#B3B1AD",
			StatuslineBackground:       "#0F1419",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			SelectionForeground:        "#B3B1AD",
			SelectionBackground:        "#27425A",
			SyntaxKeyword:              "#FFA759",
			SyntaxString:               "#BAE67E",
			SyntaxComment:              "#5C6773",
			SyntaxType:                 "#5CCFE6",
			SyntaxFunction:             "#FFD173",
			SyntaxNumber:               "#D4BFFF",
			SyntaxConstant:             "#FFDD8E",
			SyntaxOperator:             "#F29668",
			SyntaxPunctuation:          "#C0C0C0",
			SyntaxField:                "#E6B673",
			SyntaxBuiltin:              "#73D0FF",
			SyntaxVariable:             "#B3B1AD",
			SyntaxParameter:            "#B3B1AD",
		},
		Keymap: Keymap{
			"left":        "move_left",
			"right":       "move_right",
			"up":          "move_up",
			"down":        "move_down",
			"home":        "move_start",
			"end":         "move_end",
			"ctrl+home":   "move_top",
			"ctrl+end":    "move_bottom",
			"shift+left":  "select_left",
			"shift+right": "select_right",
			"shift+up":    "select_up",
			"shift+down":  "select_down",
			"shift+home":  "select_start",
			"shift+end":   "select_end",
			"enter":       "break_line",
			"backspace":   "delete_back",
			"del":         "delete_forward",
			"tab":         "indent_forward",
			"insert":      "toggle_overwrite",
			"ctrl+z":      "undo",
			"ctrl+y":      "redo",
			"ctrl+r":      "redo",
			"ctrl+a":      "select_all",
			"esc":         "clear_selection",
			"ctrl+b":      "toggle_selection_mode",
			"ctrl+g":      "toggle_virtual_edit",
			"ctrl+c":      "copy",
			"ctrl+x":      "cut",
			"ctrl+v":      "paste",
			"ctrl+p":      "paste_block",
			"ctrl+e":      "merge",
			"ctrl+l":      "toggle_line_numbers",
			"ctrl+s":      "save",
			"ctrl+q":      "quit",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.HistorySize > 0 {
		cfg.Editor.HistorySize = userCfg.Editor.HistorySize
	}
	if userCfg.Editor.IndentWidth > 0 {
		cfg.Editor.IndentWidth = userCfg.Editor.IndentWidth
	}
	if userCfg.Editor.VirtualEdit {
		cfg.Editor.VirtualEdit = userCfg.Editor.VirtualEdit
	}
	if userCfg.Editor.SelectionMode != "" {
		cfg.Editor.SelectionMode = userCfg.Editor.SelectionMode
	}
	if userCfg.Editor.Highlighter != "" {
		cfg.Editor.Highlighter = userCfg.Editor.Highlighter
	}
	if userCfg.Editor.ChromaStyle != "" {
		cfg.Editor.ChromaStyle = userCfg.Editor.ChromaStyle
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, fmt.Errorf("theme %q: %w", cfg.Theme.Theme, err)
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.LineNumberForeground != "" {
		dst.LineNumberForeground = src.LineNumberForeground
	}
	if src.LineNumberActiveForeground != "" {
		dst.LineNumberActiveForeground = src.LineNumberActiveForeground
	}
	if src.SelectionForeground != "" {
		dst.SelectionForeground = src.SelectionForeground
	}
	if src.SelectionBackground != "" {
		dst.SelectionBackground = src.SelectionBackground
	}
	if src.SyntaxKeyword != "" {
		dst.SyntaxKeyword = src.SyntaxKeyword
	}
	if src.SyntaxString != "" {
		dst.SyntaxString = src.SyntaxString
	}
	if src.SyntaxComment != "" {
		dst.SyntaxComment = src.SyntaxComment
	}
	if src.SyntaxType != "" {
		dst.SyntaxType = src.SyntaxType
	}
	if src.SyntaxFunction != "" {
		dst.SyntaxFunction = src.SyntaxFunction
	}
	if src.SyntaxNumber != "" {
		dst.SyntaxNumber = src.SyntaxNumber
	}
	if src.SyntaxConstant != "" {
		dst.SyntaxConstant = src.SyntaxConstant
	}
	if src.SyntaxOperator != "" {
		dst.SyntaxOperator = src.SyntaxOperator
	}
	if src.SyntaxPunctuation != "" {
		dst.SyntaxPunctuation = src.SyntaxPunctuation
	}
	if src.SyntaxField != "" {
		dst.SyntaxField = src.SyntaxField
	}
	if src.SyntaxBuiltin != "" {
		dst.SyntaxBuiltin = src.SyntaxBuiltin
	}
	if src.SyntaxVariable != "" {
		dst.SyntaxVariable = src.SyntaxVariable
	}
	if src.SyntaxParameter != "" {
		dst.SyntaxParameter = src.SyntaxParameter
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. The keys may sit at the top level or
// under a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("GRIDEDIT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "gridedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gridedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
