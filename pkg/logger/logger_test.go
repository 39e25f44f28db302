package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   TraceLevel,
		"DEBUG":   DebugLevel,
		" info ":  InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestInitializeDefaultsComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: InfoLevel, Output: &buf}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if defaultLogger.config.Component != "lessonkit" {
		t.Errorf("expected default component lessonkit, got %q", defaultLogger.config.Component)
	}

	Info("hello")
	if !strings.Contains(buf.String(), "lessonkit: hello") {
		t.Errorf("expected component prefix in output, got %q", buf.String())
	}
}

func TestLoggerPrettyFormattingSortsFields(t *testing.T) {
	l := &Logger{
		config: Config{Level: InfoLevel, Component: "test"},
		logger: log.New(&bytes.Buffer{}, "", 0),
	}

	entry := LogEntry{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "normalized",
		Component: "test",
		Fields:    map[string]interface{}{"file": "D3-LESSON-001.json", "changes": 2, "action": "write"},
	}

	result := l.formatPretty(entry)

	for _, part := range []string{"2025-01-01 12:00:00", "[INFO]", "test:", "normalized"} {
		if !strings.Contains(result, part) {
			t.Errorf("formatPretty() missing %q\nResult: %s", part, result)
		}
	}
	if !strings.Contains(result, "{action=write, changes=2, file=D3-LESSON-001.json}") {
		t.Errorf("expected fields in sorted order, got %s", result)
	}
}

func TestLoggerNoOpMarker(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{
		config: Config{Level: InfoLevel, Component: "test", NoOp: true},
		logger: log.New(&buf, "", 0),
	}
	l.Log(InfoLevel, "would write")
	if !strings.Contains(buf.String(), "[NO-OP]") {
		t.Errorf("expected no-op marker, got %q", buf.String())
	}
}

func TestLoggerJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{
		config: Config{Level: InfoLevel, JSON: true, Component: "test"},
		logger: log.New(&buf, "", 0),
	}

	l.Log(InfoLevel, "test message", String("key", "value"), Strings("changes", []string{"a", "b"}))

	var parsed LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed); err != nil {
		t.Fatalf("Log() produced invalid JSON: %v\nOutput: %s", err, buf.String())
	}
	if parsed.Message != "test message" || parsed.Level != "INFO" {
		t.Errorf("unexpected entry: %+v", parsed)
	}
	if parsed.Fields["changes"] != "a,b" {
		t.Errorf("expected joined list field, got %v", parsed.Fields["changes"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{
		config: Config{Level: WarnLevel, Component: "test"},
		logger: log.New(&buf, "", 0),
	}

	l.Log(InfoLevel, "info message")
	l.Log(DebugLevel, "debug message")
	l.Log(WarnLevel, "warn message")
	l.Log(ErrorLevel, "error message")

	output := buf.String()
	if strings.Contains(output, "info message") || strings.Contains(output, "debug message") {
		t.Errorf("lower levels should be filtered out: %s", output)
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("higher levels should appear: %s", output)
	}
}

func TestEnabled(t *testing.T) {
	_ = Initialize(Config{Level: WarnLevel, Output: &bytes.Buffer{}})
	if Enabled(DebugLevel) {
		t.Error("debug should be disabled at warn level")
	}
	if !Enabled(ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}
}

func TestFieldConstructors(t *testing.T) {
	if f := String("key", "value"); f.Key != "key" || f.Value != "value" {
		t.Errorf("String() = %+v", f)
	}
	if f := Int("count", 42); f.Key != "count" || f.Value != 42 {
		t.Errorf("Int() = %+v", f)
	}
	if f := Bool("enabled", true); f.Key != "enabled" || f.Value != true {
		t.Errorf("Bool() = %+v", f)
	}
	if f := Err(errors.New("boom")); f.Key != "error" || f.Value != "boom" {
		t.Errorf("Err() = %+v", f)
	}
	if f := Err(nil); f.Value != "<nil>" {
		t.Errorf("Err(nil) = %+v", f)
	}
}

func TestFallbackLogging(t *testing.T) {
	original := defaultLogger
	defaultLogger = nil
	defer func() { defaultLogger = original }()

	// must not panic without an initialized logger
	Info("fallback test message")
	Warn("dropped")
}
