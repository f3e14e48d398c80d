package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/coaster/config"
)

// TestParseLevel verifies level names are case insensitive with an info fallback
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"Info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestSessionFile verifies the session log naming
func TestSessionFile(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := SessionFile("logs", at)
	if !strings.HasSuffix(got, "ridesim.20240309_140507.log") {
		t.Errorf("SessionFile = %q", got)
	}
}

// TestSetupWritesConsoleAndFile verifies both outputs receive entries
func TestSetupWritesConsoleAndFile(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var console bytes.Buffer
	s, err := Setup(config.Settings{LogLevel: "debug", LogsDir: t.TempDir()}, &console)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	s.Logger.Debug().Str("ride", "wooden").Msg("tick loop started")
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !strings.Contains(console.String(), "tick loop started") {
		t.Errorf("console missing entry: %q", console.String())
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "tick loop started") || !strings.Contains(string(data), "ride=wooden") {
		t.Errorf("file missing entry: %q", data)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("global level = %v, want debug", zerolog.GlobalLevel())
	}
}
