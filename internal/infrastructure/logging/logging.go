package logging

import (
	"io"
	"log/slog"
	"strings"

	"gorm.io/gorm/logger"
)

// ParseLevel maps LOG_LEVEL onto slog; unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Setup installs a JSON logger at level as the slog default.
func Setup(w io.Writer, level string) *slog.Logger {
	lvl := ParseLevel(level)
	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: lvl == slog.LevelDebug,
		Level:     lvl,
	}))
	slog.SetDefault(l)
	return l
}

// GormLevel echoes SQL only when debugging.
func GormLevel(level string) logger.LogLevel {
	if ParseLevel(level) == slog.LevelDebug {
		return logger.Info
	}
	return logger.Warn
}
