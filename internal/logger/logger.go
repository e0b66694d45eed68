// Package logger provides a small leveled logger over the standard log
// package. All levels share one writer; MCP mode points it at stderr
// because stdout carries the protocol.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// ParseLevel maps "debug", "info", "warning"/"warn" and "error" to a Level.
// Anything else is LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled, prefixed log lines.
type Logger struct {
	mu         sync.Mutex
	level      Level
	debugLog   *log.Logger
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		level:      level,
		debugLog:   log.New(w, "DEBUG   ", flags),
		infoLog:    log.New(w, "INFO    ", flags),
		warningLog: log.New(w, "WARNING ", flags),
		errorLog:   log.New(w, "ERROR   ", flags),
	}
}

// Stderr creates a Logger on os.Stderr.
func Stderr(level Level) *Logger {
	return New(os.Stderr, level)
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

// Writer returns an io.Writer that logs each write at info level. Used to
// route third-party request logs through the same sink.
func (l *Logger) Writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		l.output(LevelInfo, strings.TrimRight(string(p), "\n"))
		return len(p), nil
	})
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

// Debug, Info, Warning and Error are safe to call on a nil *Logger.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.printf(LevelDebug, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.printf(LevelInfo, format, v...)
}

func (l *Logger) Warning(format string, v ...interface{}) {
	l.printf(LevelWarning, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.printf(LevelError, format, v...)
}

func (l *Logger) printf(level Level, format string, v ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.output(level, fmt.Sprintf(format, v...))
}

func (l *Logger) output(level Level, msg string) {
	if !l.Enabled(level) {
		return
	}
	var dst *log.Logger
	switch level {
	case LevelDebug:
		dst = l.debugLog
	case LevelInfo:
		dst = l.infoLog
	case LevelWarning:
		dst = l.warningLog
	default:
		dst = l.errorLog
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	// depth 4: caller -> Info/Warning/... -> printf -> output -> Output
	_ = dst.Output(4, msg)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
