// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Output goes through log/slog handlers and
// the logger is safe for concurrent use.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the config name of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseLevel converts "off", "normal" or "verbose" (case-insensitive) to a
// Level. "debug" and "info" are accepted as aliases.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "quiet":
		return LevelOff, nil
	case "normal", "info", "":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("unknown log level %q", s)
	}
}

// levelOff sits above every slog level so nothing passes.
const levelOff = slog.Level(100)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelOff:
		return levelOff
	case LevelVerbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	level *slog.LevelVar
	log   *slog.Logger
}

// New creates a logger with the given level, writing text lines to out.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	lv := new(slog.LevelVar)
	lv.Set(level.slogLevel())

	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: lv})
	return &Logger{level: lv, log: slog.New(h)}
}

// NewTee creates a logger writing text to console and JSON to file.
// Either writer may be nil to skip that output.
func NewTee(level Level, console, file io.Writer) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slogLevel())

	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{Level: lv}))
	}
	if file != nil {
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: lv}))
	}
	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: lv}))
	}
	return &Logger{level: lv, log: slog.New(slogmulti.Fanout(handlers...))}
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	switch lv := l.level.Level(); {
	case lv >= levelOff:
		return LevelOff
	case lv <= slog.LevelDebug:
		return LevelVerbose
	default:
		return LevelNormal
	}
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger { return l.log }

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.emit(slog.LevelDebug, format, args)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.emit(slog.LevelInfo, format, args)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.emit(slog.LevelWarn, format, args)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.emit(slog.LevelError, format, args)
}

func (l *Logger) emit(level slog.Level, format string, args []any) {
	ctx := context.Background()
	if !l.log.Enabled(ctx, level) {
		return
	}
	l.log.Log(ctx, level, fmt.Sprintf(format, args...))
}
