package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language binds a highlighter language name to the files it applies to.
// Lexer optionally names the chroma lexer when it differs from Name.
type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
	Lexer     string   `toml:"lexer"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// DefaultLanguages covers every language the built-in highlighters know.
func DefaultLanguages() Languages {
	return Languages{Languages: []Language{
		{Name: "go", FileTypes: []string{"go"}},
		{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc", ".zshrc"}},
		{Name: "yaml", FileTypes: []string{"yaml", "yml"}},
		{Name: "toml", FileTypes: []string{"toml"}},
		{Name: "markdown", FileTypes: []string{"md", "markdown"}},
		{Name: "json", FileTypes: []string{"json"}},
		{Name: "gitignore", FileTypes: []string{".gitignore", ".dockerignore"}},
	}}
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// LoadLanguages reads languages.toml. User entries are matched before the
// defaults, so a user entry wins for a file type both list.
func LoadLanguages() (Languages, error) {
	defaults := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return defaults, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return defaults, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Languages = append(cfg.Languages, defaults.Languages...)
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
