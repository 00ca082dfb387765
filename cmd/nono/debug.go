package main

import (
	"fmt"
	"io"

	"github.com/jacobsgrj/nono/capability"
)

// DebugLogger provides structured debug output for capability-set
// construction and sandbox installation, modeled on the teacher's
// DebugLogger: disabled when output is nil, enabled via -v/--verbose.
//
// Two verbosity levels are defined (spec.md §6's "-v repeatable"): level 1
// prints section headers and summaries, level 2+ also prints a line per
// grant and per compiled policy entry.
type DebugLogger struct {
	output io.Writer
	level  int
}

// NewDebugLogger creates a debug logger at the given verbosity level. If
// output is nil, the logger is disabled and every method is a no-op.
func NewDebugLogger(output io.Writer, level int) *DebugLogger {
	return &DebugLogger{output: output, level: level}
}

// Enabled reports whether any debug output is configured.
func (d *DebugLogger) Enabled() bool {
	return d != nil && d.output != nil && d.level > 0
}

// Section prints a section header at level 1 and above.
func (d *DebugLogger) Section(name string) {
	if !d.Enabled() {
		return
	}

	_, _ = fmt.Fprintf(d.output, "\n=== %s ===\n", name)
}

// Logf prints a formatted line at level 1 and above.
func (d *DebugLogger) Logf(format string, args ...any) {
	if !d.Enabled() {
		return
	}

	_, _ = fmt.Fprintf(d.output, format+"\n", args...)
}

// Grant prints one resolved grant at level 2 and above: the flag it came
// from, the raw input, and the canonicalized path.
func (d *DebugLogger) Grant(flagName, raw, canonical string, scope capability.Scope, mode capability.Mode) {
	if d == nil || d.output == nil || d.level < 2 {
		return
	}

	if raw == canonical {
		_, _ = fmt.Fprintf(d.output, "  %s %s %s %s\n", flagName, canonical, scope, mode.Tag())
	} else {
		_, _ = fmt.Fprintf(d.output, "  %s %s -> %s %s %s\n", flagName, raw, canonical, scope, mode.Tag())
	}
}

// Bulletf prints an indented bullet point at level 1 and above.
func (d *DebugLogger) Bulletf(format string, args ...any) {
	if !d.Enabled() {
		return
	}

	_, _ = fmt.Fprintf(d.output, "  • "+format+"\n", args...)
}
