package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesFormattedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duetick.log")
	logger := New(path, slog.LevelInfo)
	defer logger.Close()

	logger.Info("store", "task created")
	logger.Error("notify", "cancel failed")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[INFO] [store] task created") {
		t.Fatalf("missing info line, got:\n%s", content)
	}
	if !strings.Contains(content, "[ERROR] [notify] cancel failed") {
		t.Fatalf("missing error line, got:\n%s", content)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duetick.log")
	logger := New(path, slog.LevelWarn)
	defer logger.Close()

	logger.Debug("store", "noisy detail")
	logger.Warn("store", "kept line")

	data, _ := os.ReadFile(path)
	content := string(data)
	if strings.Contains(content, "noisy detail") {
		t.Fatal("debug line written despite warn level")
	}
	if !strings.Contains(content, "kept line") {
		t.Fatalf("warn line missing, got:\n%s", content)
	}
}

func TestLoggerDisabledWithEmptyPath(t *testing.T) {
	logger := New("", slog.LevelDebug)
	logger.Info("store", "goes nowhere")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
