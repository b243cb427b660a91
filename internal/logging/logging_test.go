package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn := New(dir)
	logger.Info().Str("event", "started").Msg("hello")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"event":"started"`) {
		t.Fatalf("log file missing event field: %s", data)
	}
	if !strings.Contains(string(data), `"app":"moodiary"`) {
		t.Fatalf("log file missing app field: %s", data)
	}
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	cases := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"info", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, c := range cases {
		SetLevel(c.name)
		if got := zerolog.GlobalLevel(); got != c.want {
			t.Fatalf("SetLevel(%q): level=%v, want %v", c.name, got, c.want)
		}
	}
}

func TestNewCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	logger, closeFn := New(dir)
	logger.Info().Msg("first line")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}
