package logging

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Level represents a log level
type Level int

const (
	// DebugLevel carries per-level and per-sweep optimiser progress
	DebugLevel Level = iota
	// InfoLevel is the default and carries one summary line per run
	InfoLevel
	// WarnLevel reports degenerate but accepted input
	WarnLevel
	// ErrorLevel reports failed runs
	ErrorLevel
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name to a Level. Unknown
// names map to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// Logger is the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With creates a child logger with the given fields pre-set
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// sink is the writer shared by a logger and all of its children, so that
// entries from a parent and a child never interleave mid-line.
type sink struct {
	mu     sync.Mutex
	writer io.Writer
	now    func() time.Time
}

// JSONLogger implements Logger with one JSON object per line
type JSONLogger struct {
	out    *sink
	mu     sync.RWMutex
	level  Level
	fields []Field
}

// LogEntry represents a single log entry in JSON format
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger is a logger that does nothing. It is the default for the
// optimiser so that library callers opt in to output.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return InfoLevel }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation measures the duration of an operation
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
