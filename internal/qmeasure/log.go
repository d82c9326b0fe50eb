package qmeasure

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger replaces the package logger. The cmd entry point installs a
// console writer here before running anything.
func SetLogger(l zerolog.Logger) { logger = l }

func componentLogger(name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
