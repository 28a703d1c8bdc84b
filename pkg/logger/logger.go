// Package logger builds the process-wide structured logger.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON slog logger with the given level and installs it as
// the default. An unknown level falls back to info and is reported via the
// returned error.
func New(level string, addSource bool) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: addSource,
		Level:     lvl,
	}))
	slog.SetDefault(log)

	return log, err
}

// ParseLevel converts a string level to slog.Level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", level)
	}
}
