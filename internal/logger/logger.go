// Package logger provides structured logging for buildtail.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tuanbt/buildtail/internal/config"
)

// FileName is the log file written inside the configured log directory.
const FileName = "buildtail.log"

// NewFileLogger creates a logger that ONLY writes to file, leaving the terminal
// to the renderer. Returns the logger and a cleanup function to close the file.
func NewFileLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := ParseLevel(cfg.LogLevel)

	// Ensure log directory exists
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(cfg.LogDirectory, FileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With("run_id", NewRunID())
	cleanup := func() { file.Close() }

	return logger, cleanup, nil
}

// NewConsoleLogger creates a text logger writing to w, used in plain mode.
func NewConsoleLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler).With("run_id", NewRunID())
}

// NewRunID returns an identifier correlating the log lines of one run.
func NewRunID() string {
	return uuid.NewString()
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
