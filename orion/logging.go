package orion

import (
	"log/slog"
	"os"
	"strings"
)

// ConfigureLogging installs a text handler on stderr as the default logger.
// The level is read from SELIS_LOG_LEVEL and defaults to info.
func ConfigureLogging() {
	level := parseLevel(os.Getenv("SELIS_LOG_LEVEL"))

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(value string) slog.Level {
	var level slog.Level

	value = strings.TrimSpace(value)
	if value == "" {
		return slog.LevelInfo
	}

	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}

	return level
}
