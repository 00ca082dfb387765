package main

import (
	"fmt"
	"io"

	"github.com/jacobsgrj/nono/capability"
)

// renderDryRun implements C8: a human-readable table of the capability set,
// one line per grant with a mode tag, followed by the network line. See
// spec.md §4.8 and the literal example in §8 scenario 6: stdout must
// contain lines like "[rw] /proj" and "[net] allowed".
func renderDryRun(w io.Writer, set *capability.Set) {
	for _, g := range set.Iter() {
		_, _ = fmt.Fprintf(w, "%s %s\n", g.Mode.Tag(), g.Path)
	}

	_, _ = fmt.Fprintf(w, "[net] %s\n", set.Network())
}
