package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogRPCRequest(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Output: &buf})

	l.LogRPCRequest("req-1", "/depotview.v1.DepotView/Project", 5*time.Millisecond, nil)
	l.LogRPCRequest("req-2", "/depotview.v1.DepotView/Project", time.Millisecond, errors.New("boom"))

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	if lines[0]["level"] != "info" || lines[0]["service"] != "depotview" || lines[0]["request_id"] != "req-1" {
		t.Errorf("first line = %v", lines[0])
	}
	if lines[1]["level"] != "error" || lines[1]["error"] != "boom" {
		t.Errorf("second line = %v", lines[1])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Output: &buf})
	l.ParseLogger().LogParse("#head", "head", true)
	l.LogProjection("fstat", time.Millisecond, 3, nil)
	if buf.Len() != 0 {
		t.Errorf("debug events written at info level: %s", buf.String())
	}

	l = NewLogger(Config{Level: "debug", Output: &buf})
	l.ParseLogger().LogParse("#head", "head", true)
	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["component"] != "revision" || lines[0]["matched"] != true {
		t.Errorf("lines = %v", lines)
	}
}

func TestComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf})
	l.RPCLogger("Resolve").Info("resolving").Send()
	l.WithFields(map[string]any{"shape": "where"}).Debug("projecting").Send()

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0]["method"] != "Resolve" || lines[0]["component"] != "grpc" {
		t.Errorf("rpc logger fields = %v", lines[0])
	}
	if lines[1]["shape"] != "where" {
		t.Errorf("field logger = %v", lines[1])
	}
}

func TestNop(t *testing.T) {
	Nop().Error("ignored").Send()
}
