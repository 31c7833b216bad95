package logger

import (
	"github.com/fatih/color" // Colored console output for all user-facing progress lines
)

// Colorized printing functions for the different message levels. These are
// package-level variables holding functions that behave like fmt.Printf, but
// with text colored appropriately for the level.

// Info logs informational messages in green color.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color. Tolerated failures
// (already exists, nothing to commit, workflow not found yet) land here.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It is reassigned during Init based on the --debug flag and defaults to the
// no-op so packages can log before the CLI has parsed its flags.
var Debug = func(format string, a ...any) {}

// step prints the numbered headline for each provisioning step.
var step = color.New(color.FgCyan, color.Bold).PrintfFunc()

// done prints the checkmark lines for completed or skipped steps.
var done = color.New(color.FgGreen).PrintfFunc()

// Init initializes the logger package, enabling or disabling debug logging.
// When disabled, Debug is a no-op function that silently ignores debug logs.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}

// Step prints the numbered progress headline for step n of total.
func Step(n, total int, title string) {
	step("\n[%d/%d] %s\n", n, total, title)
}

// Done prints an indented checkmark line confirming a step finished.
func Done(format string, a ...any) {
	done("  ✓ "+format, a...)
}
