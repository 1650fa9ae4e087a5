package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "warn message") {
		t.Errorf("First line should be the warning, got %q", lines[0])
	}
}

func TestJSONLogger_FieldsAreValidJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("rows read", Int("rows", 42), String("source", "test.csv"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log line is not valid JSON: %v", err)
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok {
		t.Fatalf("Missing fields object in %v", entry)
	}
	if fields["rows"] != float64(42) {
		t.Errorf("Expected rows=42, got %v", fields["rows"])
	}
	if fields["source"] != "test.csv" {
		t.Errorf("Expected source=test.csv, got %v", fields["source"])
	}
}

func TestJSONLogger_WithPresetsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(String("run_id", "abc"))
	child.Info("stage done", Err(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, `"run_id":"abc"`) {
		t.Errorf("Child entry missing preset field: %q", out)
	}
	if !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("Child entry missing error field: %q", out)
	}

	// Parent logger must not inherit child fields.
	buf.Reset()
	logger.Info("plain")
	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("Parent logger leaked child fields: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"Warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
