package logger

import (
	"log/slog"
	"strings"
)

const (
	levelTrace    = slog.LevelDebug - 4
	levelCritical = slog.LevelError + 4
)

var customLevelNames = map[slog.Level]string{
	levelTrace:    "TRACE",
	levelCritical: "CRITICAL",
}

func getLevelName(level slog.Leveler) string {
	if name, ok := customLevelNames[level.Level()]; ok {
		return name
	}
	return level.Level().String()
}

// ParseLevel accepts the level names printed by the logger, case-insensitively.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return levelTrace, true
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO", "":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	case "CRITICAL":
		return levelCritical, true
	default:
		return slog.LevelInfo, false
	}
}
