// Package logging provides the package-level structured logger used across
// every stage, replacing the teacher's code.google.com/p/log4go (a Google
// Code import path that no longer resolves) with zerolog, matching the
// logging stack of the crawler repos elsewhere in this ecosystem.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the shared logger. Stages call Debug/Info/Warn/Error directly
// rather than plumbing a logger through every constructor, mirroring the
// teacher's own package-level log4go usage.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// SetLevel adjusts the global minimum log level, e.g. from config at
// startup.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func Debug(format string, args ...interface{}) {
	Log.Debug().Msgf(format, args...)
}

func Info(format string, args ...interface{}) {
	Log.Info().Msgf(format, args...)
}

func Warn(format string, args ...interface{}) {
	Log.Warn().Msgf(format, args...)
}

func Error(format string, args ...interface{}) {
	Log.Error().Msgf(format, args...)
}

func Critical(format string, args ...interface{}) {
	Log.Error().Str("severity", "critical").Msgf(format, args...)
}
