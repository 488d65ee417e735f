// Package monitoring provides the shared diagnostic logger for the
// analysis pipeline. All diagnostics go to the logger, never to stdout,
// so the final JSON report remains the only thing a caller has to parse.
package monitoring

import (
	"log"
	"os"
)

// Logf is the package-level diagnostic logger. It defaults to a stderr
// logger but may be replaced by SetLogger. Tests can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.New(os.Stderr, "", log.LstdFlags).Printf

// Verbose enables Debugf output. Off by default.
var Verbose bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Debugf logs only when Verbose is set. Use for per-frame chatter that
// would drown the batch-level progress messages.
func Debugf(format string, v ...interface{}) {
	if Verbose {
		Logf(format, v...)
	}
}

// Warnf logs a recoverable failure. The pipeline continues after every
// Warnf call; fatal conditions are returned as errors instead.
func Warnf(format string, v ...interface{}) {
	Logf("WARNING: "+format, v...)
}
