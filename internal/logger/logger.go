// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger used through zerolog/log.
// An unknown level falls back to info.
func Setup(level string, pretty bool) zerolog.Logger {
	return SetupWriter(os.Stdout, level, pretty)
}

// SetupWriter is Setup with an explicit output.
func SetupWriter(out io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	l := zerolog.New(w).With().Timestamp().Str("service", "catalog").Logger().Level(lvl)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

// Discard silences the global logger. Tests call it from TestMain.
func Discard() {
	log.Logger = zerolog.Nop()
	zerolog.DefaultContextLogger = nil
}
