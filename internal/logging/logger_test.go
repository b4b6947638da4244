package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSetAndGetLogger(t *testing.T) {
	// Save original logger
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	customLogger := slog.New(slog.NewJSONHandler(&buf, nil))

	SetLogger(customLogger)

	got := Logger()
	if got != customLogger {
		t.Error("Logger() did not return the logger set by SetLogger()")
	}
}

func TestSetOutput(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("test message", "key", "value")

	output := buf.String()
	if output == "" {
		t.Error("expected log output to be written to buffer")
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"key"`) {
		t.Errorf("expected output to contain key, got: %s", output)
	}
}

func TestConfigure(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	Configure("debug", "text", &buf)

	Debug("debug message")

	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("expected debug output in text mode, got: %s", output)
	}

	buf.Reset()
	Configure("warn", "json", &buf)

	Info("should be suppressed")
	if buf.Len() != 0 {
		t.Errorf("info should be suppressed at warn level, got: %s", buf.String())
	}

	Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("expected warn output, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestFieldHelpers(t *testing.T) {
	if attr := UserID(42); attr.Key != "user_id" || attr.Value.Int64() != 42 {
		t.Errorf("UserID attr mismatch: %v", attr)
	}
	if attr := StakeID("stk-000001"); attr.Key != "stake_id" || attr.Value.String() != "stk-000001" {
		t.Errorf("StakeID attr mismatch: %v", attr)
	}
	if attr := Err(errors.New("boom")); attr.Key != "error" || attr.Value.String() != "boom" {
		t.Errorf("Err attr mismatch: %v", attr)
	}
	if attr := Err(nil); attr.Value.String() != "" {
		t.Errorf("Err(nil) should be empty, got %v", attr)
	}
}
