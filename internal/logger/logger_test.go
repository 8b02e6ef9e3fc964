package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewWritesDatedJSONFile(t *testing.T) {
	dir := t.TempDir()
	log, err := New(dir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	log.Info("calibration completed", slog.String("instrument", "2Y swap"), slog.Float64("rms_error", 1e-9))

	logFile := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "calibration completed") {
		t.Errorf("expected log file to contain message, got: %s", data)
	}
	if !strings.Contains(string(data), "2Y swap") {
		t.Errorf("expected log file to contain structured field, got: %s", data)
	}
}
