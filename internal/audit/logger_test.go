package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.LogCreate("run-1", "wifi-", "wifi-abc12345", false)

	output := buf.String()

	// Verify JSON format
	var entry Entry
	if err := json.Unmarshal([]byte(output), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.App != "radius-rotate" {
		t.Errorf("expected app radius-rotate, got %s", entry.App)
	}
	if entry.EventID != "AUDIT_LOG" {
		t.Errorf("expected event_id AUDIT_LOG, got %s", entry.EventID)
	}
	if entry.Operation != OpCreate {
		t.Errorf("expected operation create, got %s", entry.Operation)
	}
	if entry.RunID != "run-1" {
		t.Errorf("expected run_id run-1, got %s", entry.RunID)
	}
	if entry.Username != "wifi-abc12345" {
		t.Errorf("expected username wifi-abc12345, got %s", entry.Username)
	}
	if entry.Prefix != "wifi-" {
		t.Errorf("expected prefix wifi-, got %s", entry.Prefix)
	}
}

func TestLogger_LogRun(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.LogRun("run-2", true, 3, 5, 1)

	output := buf.String()
	if !strings.Contains(output, `"operation":"run"`) {
		t.Error("expected operation to be run")
	}
	if !strings.Contains(output, `"dry_run":true`) {
		t.Error("expected dry_run to be true")
	}
	if !strings.Contains(output, "created=3 rotated=5 failures=1") {
		t.Error("expected details to contain counts")
	}
}

func TestLogger_LogRotateNeverContainsPassword(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.LogRotate("run-3", "wifi-", "wifi-abc12345", false)

	output := buf.String()
	if strings.Contains(output, "password\":") {
		t.Error("audit entries must not carry a password field")
	}
	if !strings.Contains(output, `"operation":"rotate"`) {
		t.Error("expected operation to be rotate")
	}
}

func TestLogger_LogDeleteAndExpire(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf)

	logger.LogDelete("wifi-abc12345")
	logger.LogExpire("wifi-def67890", "01 Sep 2026 12:00:00")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"operation":"delete"`) {
		t.Error("expected first entry to be delete")
	}
	if !strings.Contains(lines[1], `"operation":"expire"`) {
		t.Error("expected second entry to be expire")
	}
	if !strings.Contains(lines[1], "01 Sep 2026 12:00:00") {
		t.Error("expected expire entry to carry the expiration value")
	}
}

func TestOpenAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")

	logger, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	logger.LogExport("run-4", "creds.csv", 3)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// 再度開いて追記されることを確認する
	logger, err = Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	logger.LogExport("run-5", "creds.csv", 2)
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 appended entries, got %d", len(lines))
	}
	for _, line := range lines {
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("invalid JSON line %q: %v", line, err)
		}
	}
}
