package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) LogEntry {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", line, err)
	}
	return entry
}

// TestJSONLogger_Basic verifies a log line carries level, message and fields.
func TestJSONLogger_Basic(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("graph built", Nodes(42), Links(99))

	entry := decodeLine(t, &buf)
	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "graph built" {
		t.Errorf("Expected message 'graph built', got %q", entry.Message)
	}
	if entry.Fields["nodes"] != float64(42) {
		t.Errorf("Expected nodes=42, got %v", entry.Fields["nodes"])
	}
}

// TestJSONLogger_LevelFiltering verifies lines below the level are dropped.
func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("dropped")
	logger.Info("dropped too")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below Warn, got %q", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("Expected warn line to be written")
	}
}

// TestJSONLogger_With verifies child loggers inherit pre-set fields.
func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel).With(Component("layout"))

	logger.Info("tick", Ticks(7), Alpha(0.42))

	entry := decodeLine(t, &buf)
	if entry.Fields["component"] != "layout" {
		t.Errorf("Expected inherited component field, got %v", entry.Fields)
	}
	if entry.Fields["ticks"] != float64(7) {
		t.Errorf("Expected ticks=7, got %v", entry.Fields["ticks"])
	}
}

// TestErrorField verifies nil and non-nil error rendering.
func TestErrorField(t *testing.T) {
	if f := Error(nil); f.Value != nil {
		t.Errorf("Expected nil value for nil error, got %v", f.Value)
	}
	if f := Error(errors.New("boom")); f.Value != "boom" {
		t.Errorf("Expected 'boom', got %v", f.Value)
	}
}

// TestParseLevel verifies the level names round trip, with Info as fallback.
func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestNopLogger verifies the nop logger is safe to use everywhere.
func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored", NodeID("inv-1"))
	if logger.With(Component("x")).GetLevel() != InfoLevel {
		t.Error("NopLogger should report InfoLevel")
	}
}
