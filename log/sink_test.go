package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/crucible-build/shrinkwrap/types"
)

func testLogger(buf *bytes.Buffer) *Logger {
	meta := &types.InvocationMeta{
		ID:         "inv-test",
		ConfigPath: "/conf/shrinkwrap.yaml",
		StartedAt:  time.Now(),
	}
	return NewLogger(meta).WithOutput(buf)
}

func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log entry is not JSON: %v: %q", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLineSink_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	sink := testLogger(&buf).LineSink("stdout", LevelInfo)

	sink("ProGuard, version 7.4.2")
	sink("Reading input...")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0]["message"] != "ProGuard, version 7.4.2" {
		t.Errorf("message = %q", entries[0]["message"])
	}
	if entries[0]["level"] != "info" {
		t.Errorf("level = %q, want info", entries[0]["level"])
	}
	if entries[0]["stream"] != "stdout" {
		t.Errorf("stream = %q, want stdout", entries[0]["stream"])
	}
}

func TestLineSink_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	sink := testLogger(&buf).LineSink("stderr", LevelError)

	sink("Warning: can't find referenced class")

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0]["level"] != "error" {
		t.Errorf("level = %q, want error", entries[0]["level"])
	}
	if entries[0]["stream"] != "stderr" {
		t.Errorf("stream = %q, want stderr", entries[0]["stream"])
	}
}

func TestLogger_InvocationContext(t *testing.T) {
	var buf bytes.Buffer
	logger := testLogger(&buf)

	logger.Info("starting shrinker", nil)

	entries := decodeEntries(t, &buf)
	if entries[0]["invocation_id"] != "inv-test" {
		t.Errorf("invocation_id = %q, want inv-test", entries[0]["invocation_id"])
	}
	if entries[0]["config"] != "/conf/shrinkwrap.yaml" {
		t.Errorf("config = %q", entries[0]["config"])
	}
}
