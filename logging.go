package datever

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLogLevel maps a case-insensitive level name to a slog.Level.
// Unknown names fall back to warn so stderr stays quiet by default.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLogger returns a text logger writing to w at the given level. Debug
// loggers include source locations.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl := ParseLogLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}))
}
