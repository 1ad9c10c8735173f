package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"", "debug", "INFO", "warn", "error"} {
		if _, err := parseLevel(name); err != nil {
			t.Errorf("parseLevel(%q) returned error: %v", name, err)
		}
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "oxy.log")
	l, err := New("debug", FileConfig{Path: logFile, MaxSizeMB: 1}, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("loaded model", zap.String("name", "cube.obj"), zap.Int("meshes", 1))
	_ = l.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "cube.obj") {
		t.Errorf("log file does not contain the entry: %s", data)
	}
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	l, err := New("info", FileConfig{}, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if l.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected a no-op logger")
	}
}

func TestInitReplacesGlobal(t *testing.T) {
	before := Log
	if err := Init("warn", ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer func() {
		Log = before
		Sugar = before.Sugar()
	}()
	if Log == before {
		t.Error("Init did not replace the global logger")
	}
	if Log.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}
