package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
		wantErr  bool
	}{
		{input: "", expected: log.InfoLevel},
		{input: "debug", expected: log.DebugLevel},
		{input: "WARN", expected: log.WarnLevel},
		{input: " error ", expected: log.ErrorLevel},
		{input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	if f, _ := ParseFormatter("json"); f != log.JSONFormatter {
		t.Errorf("expected JSON formatter, got %v", f)
	}
	if f, _ := ParseFormatter("logfmt"); f != log.LogfmtFormatter {
		t.Errorf("expected logfmt formatter, got %v", f)
	}
	if f, _ := ParseFormatter(""); f != log.TextFormatter {
		t.Errorf("expected text formatter, got %v", f)
	}
	if _, err := ParseFormatter("yaml"); err == nil {
		t.Error("expected error for unknown formatter")
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("saved tasks", "count", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", lines[0], err)
	}
	if entry["msg"] != "saved tasks" {
		t.Errorf("expected msg 'saved tasks', got %v", entry["msg"])
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, Options{Level: "chatty"}); err == nil {
		t.Error("expected error for invalid level")
	}
}
