package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerCreatesLogFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("run started", "base_dir", dir)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entry map[string]any
	line := strings.TrimSpace(string(data))
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log entry is not valid JSON: %v", err)
	}

	if entry["msg"] != "run started" {
		t.Errorf("msg = %v, want 'run started'", entry["msg"])
	}
	if entry["base_dir"] != dir {
		t.Errorf("base_dir = %v, want %v", entry["base_dir"], dir)
	}
}

func TestChildLoggerInheritsAttributes(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	child := logger.WithRun("run-1").WithPhase("implementation").WithTask("T001")
	child.Debug("saving file", "path", "src/models/user.py")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log entry is not valid JSON: %v", err)
	}

	if entry["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", entry["run_id"])
	}
	if entry["phase"] != "implementation" {
		t.Errorf("phase = %v, want implementation", entry["phase"])
	}
	if entry["task_id"] != "T001" {
		t.Errorf("task_id = %v, want T001", entry["task_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelWarn)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("should be filtered")
	logger.Warn("should appear")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	content := string(data)
	if strings.Contains(content, "should be filtered") {
		t.Error("INFO message should not appear at WARN level")
	}
	if !strings.Contains(content, "should appear") {
		t.Error("WARN message should appear at WARN level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	// Must not panic and Close must be a no-op.
	logger.Info("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close on NopLogger returned error: %v", err)
	}
}
