package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"WARN", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel}, // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("node created", NodeName("item1"), TypeName("Node"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "node created" {
		t.Errorf("Expected message %q, got %q", "node created", entry.Message)
	}
	if entry.Fields["node"] != "item1" {
		t.Errorf("Expected node field item1, got %v", entry.Fields["node"])
	}
	if entry.Fields["type"] != "Node" {
		t.Errorf("Expected type field Node, got %v", entry.Fields["type"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("suppressed")
	logger.Info("suppressed")
	logger.Warn("visible")
	logger.Error("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("Expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	child := logger.With(Component("persist"))
	child.Info("saved", Count(3))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if entry.Fields["component"] != "persist" {
		t.Errorf("Expected pre-set component field, got %v", entry.Fields)
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("Expected count field 3, got %v", entry.Fields["count"])
	}

	// The parent logger is unchanged
	buf.Reset()
	entry = LogEntry{}
	logger.Info("plain")
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if _, exists := entry.Fields["component"]; exists {
		t.Error("Parent logger should not carry child fields")
	}
}

func TestErrorField(t *testing.T) {
	f := Error(errors.New("boom"))
	if f.Key != "error" || f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
	f = Error(nil)
	if f.Key != "error" || f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
}

func TestSetDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	replacement := NewJSONLogger(&buf, DebugLevel)

	prev := DefaultLogger()
	defer SetDefaultLogger(prev)

	// The replacement must stick even if set before any default-logger use:
	// lazy initialization may not overwrite it later.
	SetDefaultLogger(replacement)
	if DefaultLogger() != Logger(replacement) {
		t.Fatal("DefaultLogger did not return the replacement")
	}

	Info("routed")
	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Package-level log did not reach the replacement: %v", err)
	}
	if entry.Message != "routed" {
		t.Errorf("Expected message %q, got %q", "routed", entry.Message)
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	timer := StartTimer(logger, "scene loaded", Path("scene.json"))
	time.Sleep(time.Millisecond)
	timer.End()

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if _, exists := entry.Fields["latency"]; !exists {
		t.Error("Expected latency field on timed operation")
	}
	if entry.Fields["path"] != "scene.json" {
		t.Errorf("Expected path field, got %v", entry.Fields)
	}
}
