package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the structured logger shared by every service. Action tags the
// entry with the operation being performed.
type Logger interface {
	Action(action string) Logger
	With(args ...any) Logger
	WithGroup(name string) Logger

	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
}

type logger struct {
	l *slog.Logger
}

// New creates a JSON logger writing to stdout at the given level
// (DEBUG, INFO, WARN, ERROR; case-insensitive).
func New(level string) (Logger, error) {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return &logger{l: slog.New(h).With("hostname", hostname)}, nil
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() Logger {
	return &logger{l: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %q", level)
}

func (lg *logger) Action(action string) Logger {
	return &logger{l: lg.l.With("action", action)}
}

func (lg *logger) With(args ...any) Logger {
	return &logger{l: lg.l.With(args...)}
}

func (lg *logger) WithGroup(name string) Logger {
	return &logger{l: lg.l.WithGroup(name)}
}

func (lg *logger) Debug(msg string, args ...any) { lg.l.Debug(msg, args...) }
func (lg *logger) Info(msg string, args ...any)  { lg.l.Info(msg, args...) }
func (lg *logger) Warn(msg string, args ...any)  { lg.l.Warn(msg, args...) }

func (lg *logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	lg.l.Error(msg, args...)
}
