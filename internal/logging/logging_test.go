package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeWritesJSONToFile(t *testing.T) {
	t.Cleanup(InitializeDefault)

	path := filepath.Join(t.TempDir(), "landed-cost.log")
	if err := Initialize(Config{Level: "warn", Format: "json", Output: path}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Info("dropped below level")
	Warn("rates table unavailable", zap.String("path", "rates.yaml"))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "dropped below level") {
		t.Error("info message written at warn level")
	}
	for _, want := range []string{`"msg":"rates table unavailable"`, `"path":"rates.yaml"`, `"service":"landed-cost"`, `"timestamp":`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
}

func TestInitializeBadLevelDefaultsToInfo(t *testing.T) {
	t.Cleanup(InitializeDefault)

	if err := Initialize(Config{Level: "loud", Output: "discard"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !Logger.Core().Enabled(zapcore.InfoLevel) || Logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected info level")
	}
}

func TestInitializeUnwritableOutput(t *testing.T) {
	t.Cleanup(InitializeDefault)

	path := filepath.Join(t.TempDir(), "missing", "dir", "x.log")
	if err := Initialize(Config{Output: path}); err == nil {
		t.Error("expected error for unwritable output")
	}
}

func TestNamedUsesGlobalLogger(t *testing.T) {
	t.Cleanup(InitializeDefault)

	core, logs := observer.New(zapcore.DebugLevel)
	UseLogger(zap.New(core))

	Named("engine").Debug("calculation complete", zap.Int64("units", 4842))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].LoggerName != "engine" || entries[0].ContextMap()["units"] != int64(4842) {
		t.Errorf("entry = %+v", entries[0])
	}

	UseLogger(nil)
	Info("goes nowhere")
}
