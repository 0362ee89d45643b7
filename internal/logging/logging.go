// Package logging is a thin slog wrapper that tags every entry with the
// subsystem that produced it (Bootstrap, Workflow, Docker, HTTP, Callback).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// Init replaces the process logger. Call it once at startup, before any
// goroutine logs.
func Init(level LogLevel, output io.Writer) {
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level.SlogLevel(),
	}))

	mu.Lock()
	defaultLogger = logger
	mu.Unlock()

	slog.SetDefault(logger)
}

// LevelFor maps the DEBUG switch onto a level.
func LevelFor(debug bool) LogLevel {
	if debug {
		return LevelDebug
	}
	return LevelInfo
}

func logInternal(level LogLevel, subsystem string, err error, attrs []slog.Attr, messageFmt string, args ...interface{}) {
	mu.RLock()
	logger := defaultLogger
	mu.RUnlock()

	ctx := context.Background()
	if !logger.Enabled(ctx, level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	all := make([]slog.Attr, 0, len(attrs)+2)
	all = append(all, slog.String("subsystem", subsystem))
	if err != nil {
		all = append(all, slog.String("error", err.Error()))
	}
	all = append(all, attrs...)

	logger.LogAttrs(ctx, level.SlogLevel(), msg, all...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, nil, messageFmt, args...)
}

// Logger carries fixed attributes, such as a deployment ID, across a series
// of log calls.
type Logger struct {
	subsystem string
	attrs     []slog.Attr
}

// With returns a Logger for subsystem that appends attrs to every entry.
func With(subsystem string, attrs ...slog.Attr) *Logger {
	return &Logger{subsystem: subsystem, attrs: attrs}
}

func (l *Logger) Debug(messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, l.subsystem, nil, l.attrs, messageFmt, args...)
}

func (l *Logger) Info(messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, l.subsystem, nil, l.attrs, messageFmt, args...)
}

func (l *Logger) Warn(messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, l.subsystem, nil, l.attrs, messageFmt, args...)
}

func (l *Logger) Error(err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, l.subsystem, err, l.attrs, messageFmt, args...)
}
