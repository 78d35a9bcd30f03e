package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// EnvLogLevel names the environment variable read by DefaultLogger
const EnvLogLevel = "COMMUNITIES_LOG_LEVEL"

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		out:    &sink{writer: writer, now: time.Now},
		level:  level,
		fields: make([]Field, 0),
	}
}

// NewDefaultLogger creates a logger that writes to stderr at INFO level
func NewDefaultLogger() *JSONLogger {
	return NewJSONLogger(os.Stderr, InfoLevel)
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	l.mu.RLock()
	if level < l.level {
		l.mu.RUnlock()
		return
	}
	preset := l.fields
	l.mu.RUnlock()

	fieldMap := make(map[string]any, len(preset)+len(fields))
	for _, f := range preset {
		fieldMap[f.Key] = f.Value
	}
	for _, f := range fields {
		fieldMap[f.Key] = f.Value
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	entry := LogEntry{
		Time:    l.out.now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(fieldMap) > 0 {
		entry.Fields = fieldMap
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.out.writer, "[ERROR] failed to marshal log entry %q: %v\n", msg, err)
		return
	}
	data = append(data, '\n')
	l.out.writer.Write(data)
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger sharing this logger's writer
func (l *JSONLogger) With(fields ...Field) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make([]Field, len(l.fields)+len(fields))
	copy(merged, l.fields)
	copy(merged[len(l.fields):], fields)

	return &JSONLogger{
		out:    l.out,
		level:  l.level,
		fields: merged,
	}
}

// SetLevel sets the minimum log level
func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// DefaultLogger returns the process-wide logger, created on first use at the
// level named by COMMUNITIES_LOG_LEVEL.
func DefaultLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		level := InfoLevel
		if s := os.Getenv(EnvLogLevel); s != "" {
			level = ParseLevel(s)
		}
		defaultLogger = NewJSONLogger(os.Stderr, level)
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at INFO with its duration and any extra fields
func (t *TimedOperation) End(extra ...Field) time.Duration {
	return t.EndWithLevel(InfoLevel, extra...)
}

// EndWithLevel logs the operation at the given level with its duration
func (t *TimedOperation) EndWithLevel(level Level, extra ...Field) time.Duration {
	elapsed := time.Since(t.start)
	fields := make([]Field, 0, len(t.fields)+len(extra)+1)
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	fields = append(fields, Latency(elapsed))
	switch level {
	case DebugLevel:
		t.logger.Debug(t.msg, fields...)
	case InfoLevel:
		t.logger.Info(t.msg, fields...)
	case WarnLevel:
		t.logger.Warn(t.msg, fields...)
	default:
		t.logger.Error(t.msg, fields...)
	}
	return elapsed
}

// EndError logs the operation as failed
func (t *TimedOperation) EndError(err error) time.Duration {
	return t.EndWithLevel(ErrorLevel, Error(err))
}
