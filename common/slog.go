package common

import (
	"fmt"
	"log/slog"
	"strings"
)

// SlogResetLevel sets the default slog level and returns a function that resets it to the previous level,
// pairs well with defer.
// Use like:
// func Test123(t *testing.T) {
//     defer common.SlogResetLevel(slog.LevelWarn + 1)()
func SlogResetLevel(level slog.Level) (reset func()) {
	oldLevel := slog.SetLogLoggerLevel(level)
	return func() {
		slog.SetLogLoggerLevel(oldLevel)
	}
}

// ParseSlogLevel parses a level name (debug, info, warn, error) or a slog level integer.
func ParseSlogLevel(s string) (slog.Level, error) {
	var level slog.Level
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err == nil {
		return level, nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
		return slog.Level(n), nil
	}
	return level, fmt.Errorf("invalid log level %q", s)
}
