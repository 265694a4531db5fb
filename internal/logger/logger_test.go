package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitWithWriter_JSONLevels(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("warn", "json", &buf)

	Info("hidden %d", 1)
	Warn("ledger %s", "stale")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["message"] != "ledger stale" {
		t.Errorf("message = %v, want %q", entry["message"], "ledger stale")
	}
}

func TestInitWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("verbose", "text", &buf)

	Debug("not shown")
	Info("shown")

	out := buf.String()
	if strings.Contains(out, "not shown") {
		t.Errorf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info line missing: %q", out)
	}
}
