// Package logger builds the zerolog loggers used across the service.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to out at the given level. format "console"
// produces human-readable lines; anything else produces JSON.
func New(level, format string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ForController returns a child logger tagged with the controller name.
func ForController(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("controller", name).Logger()
}

var sensitiveFields = []string{"password", "token", "secret"}

// RedactBody masks sensitive top-level fields of a decoded JSON body in place.
func RedactBody(body map[string]any) map[string]any {
	for _, field := range sensitiveFields {
		if _, ok := body[field]; ok {
			body[field] = "[REDACTED]"
		}
	}
	return body
}
