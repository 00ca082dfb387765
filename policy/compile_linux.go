//go:build linux

package policy

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/jacobsgrj/nono/capability"
)

// linuxArtifact is the Landlock backend's compiled policy: the concrete
// path sets handed to landlock.Config.RestrictPaths, grouped the way the
// library's RODirs/RWDirs/ROFiles/RWFiles helpers expect.
//
// go-landlock has no write-only helper (landlock's ABI has no notion of
// "write but not read" for directories), so a Write-only Tree or File
// grant is installed as read-write. This is a deliberate widening on this
// backend only; the capability set itself still reports the narrower mode
// to callers (dry-run, why, the state file).
type linuxArtifact struct {
	net     capability.Network
	roDirs  []string
	rwDirs  []string
	roFiles []string
	rwFiles []string
}

func (a *linuxArtifact) Backend() string { return "landlock" }

func (a *linuxArtifact) Bytes() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "backend=landlock\nnetwork=%s\n", a.net)

	writeSorted := func(label string, paths []string) {
		sorted := append([]string(nil), paths...)
		sort.Strings(sorted)

		for _, p := range sorted {
			fmt.Fprintf(&buf, "%s %s\n", label, p)
		}
	}

	writeSorted("ro-dir", a.roDirs)
	writeSorted("rw-dir", a.rwDirs)
	writeSorted("ro-file", a.roFiles)
	writeSorted("rw-file", a.rwFiles)

	return buf.Bytes()
}

func bootstrapPaths() []string {
	out := make([]string, 0, len(bootstrapSystemPaths))

	for _, p := range bootstrapSystemPaths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}

	return out
}

func compile(set *capability.Set) (Artifact, error) {
	a := &linuxArtifact{net: set.Network()}

	for _, p := range bootstrapPaths() {
		a.roDirs = append(a.roDirs, p)
	}

	for _, g := range set.Iter() {
		switch g.Scope {
		case capability.Tree:
			if g.Mode == capability.Read {
				a.roDirs = append(a.roDirs, g.Path.String())
			} else {
				a.rwDirs = append(a.rwDirs, g.Path.String())
			}
		case capability.File:
			if g.Mode == capability.Read {
				a.roFiles = append(a.roFiles, g.Path.String())
			} else {
				a.rwFiles = append(a.rwFiles, g.Path.String())
			}
		}
	}

	return a, nil
}
