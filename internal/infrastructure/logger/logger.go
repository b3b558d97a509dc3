package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New builds the application logger. Production emits JSON, everything
// else human-readable text.
func New(w io.Writer, level string, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if production {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps LOG_LEVEL values onto slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
