package app

import (
	"github.com/atotto/clipboard"

	"github.com/kobzarvs/gridedit/internal/logger"
)

// Clipboard is where copy, cut and the paste family exchange text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// systemClipboard talks to the OS clipboard and keeps a private register
// for terminals without one (no xclip/xsel, ssh sessions).
type systemClipboard struct {
	register string
}

func newSystemClipboard() *systemClipboard {
	if clipboard.Unsupported {
		logger.Info("system clipboard unsupported, using internal register")
	}
	return &systemClipboard{}
}

func (c *systemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return c.register, nil
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		logger.Warn("clipboard read failed", "error", err)
		return c.register, nil
	}
	return text, nil
}

func (c *systemClipboard) WriteAll(text string) error {
	c.register = text
	if clipboard.Unsupported {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warn("clipboard write failed", "error", err)
	}
	return nil
}

// memoryClipboard is a register with no OS backing.
type memoryClipboard struct {
	text string
}

func (c *memoryClipboard) ReadAll() (string, error) { return c.text, nil }

func (c *memoryClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}
