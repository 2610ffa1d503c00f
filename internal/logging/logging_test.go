package logging_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asrecorded/asrec/internal/config"
	"github.com/asrecorded/asrec/internal/logging"
)

func TestOpenWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "asrec.log")
	log, err := logging.Open(path, "info", "text")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	log.Debug("hidden")
	log.Info("chapter loaded", "chapter", 7)
	log.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	got := string(content)
	if !strings.Contains(got, "chapter loaded") || !strings.Contains(got, "chapter=7") {
		t.Errorf("log = %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Error("debug message written at info level")
	}
}

func TestSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asrec.log")
	log, err := logging.Open(path, "error", "json")
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	log.Warn("before")
	log.SetLevel("warn")
	log.Warn("after")

	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), "before") || !strings.Contains(string(content), `"msg":"after"`) {
		t.Errorf("log = %q", content)
	}
}

func TestOpen_RejectsUnknownFormat(t *testing.T) {
	if _, err := logging.Open(filepath.Join(t.TempDir(), "x.log"), "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestOpenFromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	log, err := logging.OpenFromConfig(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()
	if want := filepath.Join(dir, "asrec", "asrec.log"); log.Path() != want {
		t.Errorf("path = %q, want %q", log.Path(), want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := logging.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
