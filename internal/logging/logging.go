// Package logging builds the zerolog loggers used by the server and the CLI.
//
// Logs always go to stderr: stdout carries the MCP protocol stream or the
// CLI's JSON output. When stderr is a terminal the human-readable console
// writer is used, otherwise one JSON object per line.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// EnvLevel names the environment variable holding the log level: debug, info,
// warn or error.
const EnvLevel = "HOUGH_MCP_LOG_LEVEL"

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// fall back to info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}

// New returns a timestamped logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// FromEnv returns a stderr logger at the level named by EnvLevel.
func FromEnv() zerolog.Logger {
	level := ParseLevel(os.Getenv(EnvLevel))
	var w io.Writer = os.Stderr
	if term.IsTerminal(int(os.Stderr.Fd())) {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return New(w, level)
}

// Component derives a logger that tags every event with a component field.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
