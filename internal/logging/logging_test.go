package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for input, want := range cases {
		got, err := ParseLevel(input)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, FormatJSON, LevelInfo)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("request", "status", 200)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "request" || record["status"] != float64(200) {
		t.Fatalf("unexpected record: %#v", record)
	}
}

func TestNew_TintWithoutColourForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "", LevelDebug)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("wizard next", "step", "company")
	out := buf.String()
	if !strings.Contains(out, "wizard next") || !strings.Contains(out, "step=company") || strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected tint output %q", out)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New(nil, "xml", LevelInfo); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
