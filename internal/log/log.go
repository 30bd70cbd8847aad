// Package log configures the process-wide slog logger.
package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelTrace sits below debug and is used for wire-level HTTP logging.
const LevelTrace = slog.LevelDebug - 4

var levelNames = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return slog.LevelError, nil
	}
	lvl, ok := levelNames[n]
	if !ok {
		return slog.LevelError, fmt.Errorf("unknown log level %q (want trace, debug, info, warn or error)", name)
	}
	return lvl, nil
}

// LevelName is the inverse of ParseLevel.
func LevelName(l slog.Level) string {
	for name, lvl := range levelNames {
		if lvl == l {
			return name
		}
	}
	return l.String()
}

// replaceLevel prints LevelTrace as TRACE instead of DEBUG-4.
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}
