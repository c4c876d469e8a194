// Package logging wires the protocol engine's diagnostic trail. It is
// grounded on schmitthub-clawker's pkg/logger package: a thin
// zerolog.Logger construction with no transport/sink concerns of its
// own — callers pick the output, this package only shapes the
// default.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Default returns the package-level logger a Session falls back to
// when no logger is supplied via session.WithLogger: a console writer
// on stderr at info level, matching the teacher-adjacent repo's
// Init(debug bool) shape but without a global mutable singleton —
// every Session gets its own instance so one host process embedding
// several sessions doesn't share log state across them.
func Default() zerolog.Logger {
	return New(false)
}

// New builds a console-formatted logger at debug or info level.
func New(debug bool) zerolog.Logger {
	var output io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
