// Package logger provides the zerolog-backed implementation of the core
// logging interface. Output format and level are controlled by the APP_ENV
// and LOG_LEVEL environment variables.
package logger

import corelogger "github.com/ecotrack/binsight/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// New returns a Logger for the given component.
func New(component string) Logger {
	return NewZerologLogger(component)
}
