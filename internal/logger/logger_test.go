package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestHelpersAreNoopsBeforeInit(t *testing.T) {
	Close()
	Debug("ignored", "k", 1)
	Info("ignored")
	Warn("ignored")
	Error("ignored")
}

func TestInstallWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	install(zapcore.AddSync(&buf), zapcore.DebugLevel)
	defer Close()

	Debug("history recorded", "kind", "insert", "lists", 3)
	_ = L.Sync()

	out := buf.String()
	if !strings.Contains(out, "DEBUG") {
		t.Fatalf("log output %q missing level", out)
	}
	if !strings.Contains(out, "history recorded") {
		t.Fatalf("log output %q missing message", out)
	}
	if !strings.Contains(out, `"kind": "insert"`) {
		t.Fatalf("log output %q missing field", out)
	}
}

func TestInitUsesLogFileEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "editor.log")
	t.Setenv("GRIDEDIT_LOG_FILE", path)

	if err := Init(false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Info("hello")
	Debug("filtered at info level")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log = %q, want it to contain %q", data, "hello")
	}
	if strings.Contains(string(data), "filtered at info level") {
		t.Fatalf("debug line written at info level: %q", data)
	}
}

func TestLogPathFallbacks(t *testing.T) {
	t.Setenv("GRIDEDIT_LOG_FILE", "")
	t.Setenv("GRIDEDIT_CONFIG_HOME", "/tmp/gridedit-home")
	got, err := getLogPath()
	if err != nil {
		t.Fatalf("getLogPath error: %v", err)
	}
	if got != "/tmp/gridedit-home/gridedit.log" {
		t.Fatalf("getLogPath = %q, want %q", got, "/tmp/gridedit-home/gridedit.log")
	}

	t.Setenv("GRIDEDIT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err = getLogPath()
	if err != nil {
		t.Fatalf("getLogPath error: %v", err)
	}
	if got != "/tmp/xdg/gridedit/gridedit.log" {
		t.Fatalf("getLogPath = %q, want %q", got, "/tmp/xdg/gridedit/gridedit.log")
	}
}
