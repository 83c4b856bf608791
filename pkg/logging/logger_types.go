// Package logging provides structured JSON logging for the relationship
// graph engine. The engine itself is pure computation; logging is the one
// side effect it carries, and callers that want silence inject NopLogger.
package logging

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Level orders log severities. Anything below a logger's level is dropped.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String renders the level the way it appears in emitted entries.
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

// ParseLevel reads a level name case-insensitively. Unrecognized names fall
// back to InfoLevel rather than failing; a bad RELGRAPH_LOG_LEVEL should not
// stop the pipeline.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
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

// Field is one key/value pair attached to a log entry. Prefer the typed
// constructors in logger_fields.go over building these by hand, so field
// names stay consistent across the engine.
type Field struct {
	Key   string
	Value any
}

// Logger is what the engine's packages accept. Constructors treat a nil
// Logger as NopLogger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger whose entries always carry fields.
	With(fields ...Field) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// JSONLogger writes one JSON object per entry. Safe for concurrent use.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     sync.Mutex
}

// LogEntry is the emitted wire shape.
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return InfoLevel }

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation logs an operation together with its wall-clock duration.
// Obtain one from StartTimer and finish with End or EndError.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
