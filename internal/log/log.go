// Package log provides the DEBUG/TRACE logging primitives shared by the
// elaborator and the CLI. It mirrors the teacher's own log.DEBUG/log.TRACE
// call sites: plain printf-style helpers gated by package-level switches,
// with no structured logger, handler chain, or level registry to configure.
package log

import (
	"fmt"
	"os"

	"github.com/starkandwayne/goutils/ansi"
)

// DebugOn enables DEBUG output when true. Set directly or via SetDebug.
var DebugOn bool

// TraceOn enables TRACE output when true. SetTrace(true) also sets
// DebugOn; setting TraceOn directly leaves DebugOn unchanged.
var TraceOn bool

// SetDebug toggles debug-level logging.
func SetDebug(on bool) {
	DebugOn = on
}

// SetTrace toggles trace-level logging. Enabling trace also enables debug.
func SetTrace(on bool) {
	TraceOn = on
	if on {
		DebugOn = true
	}
}

// DEBUG prints a formatted debug line to stderr when DebugOn is set.
func DEBUG(format string, args ...interface{}) {
	if !DebugOn {
		return
	}
	PrintfStdErr(ansi.Sprintf("@m{DEBUG}: %s\n", fmt.Sprintf(format, args...)))
}

// TRACE prints a formatted trace line to stderr when TraceOn is set.
func TRACE(format string, args ...interface{}) {
	if !TraceOn {
		return
	}
	PrintfStdErr(ansi.Sprintf("@c{TRACE}: %s\n", fmt.Sprintf(format, args...)))
}

// PrintfStdErr writes directly to stderr, bypassing the Debug/Trace gates.
// Used for warnings and the final one-line CLI error report.
func PrintfStdErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}
