package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"Warning", LevelWarn},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_Output(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo)
	l.SetOutput(&buf)

	l.Debug("hidden %d", 1)
	l.Info("catalog loaded: %d systems", 42)
	l.Error("boom")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "catalog loaded: 42 systems") {
		t.Errorf("info line missing: %q", out)
	}
	if !strings.Contains(out, "INF") || !strings.Contains(out, "ERR") {
		t.Errorf("level markers missing: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color codes written to a buffer: %q", out)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelError)
	l.SetOutput(&buf)

	l.Warn("first")
	l.SetLevel(LevelDebug)
	l.Debug("second")

	out := buf.String()
	if strings.Contains(out, "first") {
		t.Errorf("warn line written at error level: %q", out)
	}
	if !strings.Contains(out, "second") {
		t.Errorf("debug line missing after SetLevel: %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo)
	l.SetOutput(&buf)

	l.With("component", "client").Info("request sent")
	l.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "component=client") {
		t.Errorf("field missing: %q", lines[0])
	}
	if strings.Contains(lines[1], "component=") {
		t.Errorf("child field leaked into parent: %q", lines[1])
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing %s", "happens")
	l.With("k", "v").Error("still nothing")
}
