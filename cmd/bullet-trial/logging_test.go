package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/bullet-trial/config"
)

const maxLogSize = maxLogSizeMB * 1024 * 1024

func testLogConfig(t *testing.T) config.LoggingConfig {
	t.Helper()
	return config.LoggingConfig{Level: "debug", Format: "console", Dir: filepath.Join(t.TempDir(), "logs")}
}

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	cfg := testLogConfig(t)
	log, sink, err := setupLogging(cfg, false)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	if sink != nil {
		t.Error("Expected nil log sink when debug=false")
		sink.Close()
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Expected a no-op logger when debug=false")
	}
	if _, err := os.Stat(cfg.Dir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory when debug=false")
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	cfg := testLogConfig(t)
	log, sink, err := setupLogging(cfg, true)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	if sink == nil {
		t.Fatal("Expected non-nil log sink when debug=true")
	}
	defer sink.Close()
	if _, err := os.Stat(cfg.Dir); err != nil {
		t.Fatalf("Expected logs directory to be created: %v", err)
	}

	log.Info("Test log message")
	log.Sync()

	logPath := filepath.Join(cfg.Dir, logFileName)
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	cfg := testLogConfig(t)
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}

	logPath := filepath.Join(cfg.Dir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatalf("Failed to write large log file: %v", err)
	}

	log, sink, err := setupLogging(cfg, true)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	defer sink.Close()

	// The sink rotates on the first write past the size limit
	log.Info("Test log message")
	log.Sync()

	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}
