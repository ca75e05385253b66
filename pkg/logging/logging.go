// Package logging configures the process-wide logrus logger used across the
// indexer, continuing the teacher's convention (core/virtual_machine.go,
// core/system_health_logging.go) of a package-level structured logger rather
// than the stdlib log package.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures the process logger.
type Options struct {
	// Level is one of logrus's level names ("debug", "info", "warn",
	// "error"). Defaults to "info" when empty or unparsable.
	Level string
	// JSON selects the JSONFormatter (production) over the TextFormatter
	// (local development), matching core/virtual_machine.go's
	// `logrus.SetFormatter(&logrus.JSONFormatter{})`.
	JSON bool
	// File, when non-empty, appends log output to this path instead of
	// stderr.
	File string
}

// New builds a dedicated *logrus.Logger from opts. Call sites that need a
// package-level logger should store the result behind their own var so
// tests can substitute a capturing logger.
func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
	}

	return log, nil
}

// Default is the package-level logger every component falls back to when
// none is injected, matching the teacher's bare `logrus.StandardLogger()`
// fallback used throughout this module's other packages.
var Default = logrus.StandardLogger()

// Configure rebuilds Default from opts. Call this once at process startup,
// before any component captures Default as its logrus.FieldLogger.
func Configure(opts Options) error {
	log, err := New(opts)
	if err != nil {
		return err
	}
	Default = log
	return nil
}
