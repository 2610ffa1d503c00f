// Package logging builds the slog logger used by every asrec command.
// Output always goes to a file: the review TUI owns the terminal.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asrecorded/asrec/internal/config"
)

// Log is an open log file and the logger writing to it.
type Log struct {
	*slog.Logger
	level *slog.LevelVar
	file  *os.File
	path  string
}

// Open appends to the log file at path, creating its directory.
// format is "text" (default) or "json".
func Open(path, level, format string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	lv := new(slog.LevelVar)
	lv.Set(ParseLevel(level))
	h, err := newHandler(f, lv, format)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Log{Logger: slog.New(h), level: lv, file: f, path: path}, nil
}

// OpenFromConfig opens asrec.log under the state dir.
func OpenFromConfig(cfg config.Config) (*Log, error) {
	return Open(filepath.Join(config.StateDir(), "asrec.log"), cfg.LogLevel, "text")
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(w io.Writer, lv *slog.LevelVar, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level:     lv,
		AddSource: lv.Level() <= slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().Format(time.RFC3339))
				}
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the level of a running logger (config reload).
func (l *Log) SetLevel(level string) {
	l.level.Set(ParseLevel(level))
}

func (l *Log) Path() string { return l.path }

func (l *Log) Close() error {
	return l.file.Close()
}
