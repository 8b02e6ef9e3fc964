// Package logger provides the dual-output structured logger used by
// the service layer: JSON lines to a dated file and to stdout.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Logger wraps slog.Logger; callers use its structured methods
// directly (Info, Error, With, ...).
type Logger struct {
	*slog.Logger
}

// New creates a structured logger that writes JSON to
// logDir/<today>.log and, for readability during local runs, to
// stdout as well.
func New(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	logFile := filepath.Join(logDir, time.Now().Format("2006-01-02")+".log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	multiWriter := io.MultiWriter(file, os.Stdout)
	handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	})

	return &Logger{slog.New(handler)}, nil
}
