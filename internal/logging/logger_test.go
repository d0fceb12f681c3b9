package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidLevel(t *testing.T) {
	for _, level := range []int{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical} {
		if !ValidLevel(level) {
			t.Errorf("level %d should be valid", level)
		}
	}
	for _, level := range []int{0, 5, 15, 25, 60, -10} {
		if ValidLevel(level) {
			t.Errorf("level %d should be invalid", level)
		}
	}
}

func TestSlogLevelMapping(t *testing.T) {
	cases := map[int]slog.Level{
		LevelDebug:    slog.LevelDebug,
		LevelInfo:     slog.LevelInfo,
		LevelWarning:  slog.LevelWarn,
		LevelError:    slog.LevelError,
		LevelCritical: slog.LevelError,
	}
	for in, want := range cases {
		if got := slogLevel(in); got != want {
			t.Errorf("slogLevel(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	logger, err := New(Options{Level: LevelDebug, Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger = NewComponentLogger(logger, "dispatch")
	logger.Info("processing finished", String(FieldFile, "/films/a.mkv"), Int("mutations", 3))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO dispatch: processing finished") {
		t.Errorf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "file=/films/a.mkv") || !strings.Contains(line, "mutations=3") {
		t.Errorf("missing attributes in log line: %q", line)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, err := New(Options{Level: LevelWarning, Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("should be suppressed")
	logger.Warn("should appear")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "should be suppressed") {
		t.Error("info line must be filtered at warning level")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("warning line missing")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Level: LevelInfo, Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, err := New(Options{Level: LevelInfo, Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hello", String("k", "v"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"msg":"hello"`, `"level":"info"`, `"k":"v"`} {
		if !strings.Contains(line, want) {
			t.Errorf("json line missing %s: %q", want, line)
		}
	}
}
