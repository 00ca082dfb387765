//go:build darwin

package policy

import (
	"fmt"
	"strings"

	"github.com/jacobsgrj/nono/capability"
)

// darwinArtifact is the Seatbelt backend's compiled policy: a textual
// sandbox-exec profile in Apple's S-expression policy language.
type darwinArtifact struct {
	profile string
}

func (a *darwinArtifact) Backend() string { return "seatbelt" }
func (a *darwinArtifact) Bytes() []byte   { return []byte(a.profile) }

func bootstrapPaths() []string {
	return append([]string(nil), bootstrapSystemPaths...)
}

func compile(set *capability.Set) (Artifact, error) {
	var b strings.Builder

	b.WriteString("(version 1)\n")
	b.WriteString("(deny default)\n\n")

	b.WriteString(";; bootstrap: process info, system libraries, and the binary itself\n")
	b.WriteString("(allow process-info*)\n")
	b.WriteString("(allow file-read-metadata)\n")

	for _, p := range bootstrapPaths() {
		fmt.Fprintf(&b, "(allow file-read* (subpath %q))\n", p)
	}

	b.WriteString("\n;; explicit grants\n")

	for _, g := range set.Iter() {
		predicate := "subpath"
		if g.Scope == capability.File {
			predicate = "literal"
		}

		if g.Mode&capability.Read != 0 {
			fmt.Fprintf(&b, "(allow file-read* (%s %q))\n", predicate, g.Path.String())
		}

		if g.Mode&capability.Write != 0 {
			fmt.Fprintf(&b, "(allow file-write* (%s %q))\n", predicate, g.Path.String())
		}
	}

	b.WriteString("\n;; process execution: the child itself must be exec-able, nothing may fork further\n")
	b.WriteString("(allow process-exec*)\n")

	b.WriteString("\n;; network\n")
	if set.Network() == capability.Blocked {
		b.WriteString("(deny network*)\n")
	} else {
		b.WriteString("(allow network-outbound)\n")
		b.WriteString("(allow network-bind (local ip))\n")
		b.WriteString("(allow system-socket)\n")
	}

	return &darwinArtifact{profile: b.String()}, nil
}
