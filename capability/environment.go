package capability

import (
	"sort"
	"strings"
)

// Environment variable names exported into the sandboxed child's process
// environment, per spec.md §4.9. A well-behaved child (or a script invoked
// through one) can introspect its own sandbox without shelling out.
const (
	EnvSandboxed = "NONO_SANDBOXED"
	EnvActive    = "NONO_ACTIVE"
	EnvAllowed   = "NONO_ALLOWED"
	EnvNet       = "NONO_NET"
	EnvBlocked   = "NONO_BLOCKED"
	EnvHelp      = "NONO_HELP"
	EnvCapFile   = "NONO_CAP_FILE"
)

// ExportEnvironment computes the NONO_* variables to inject into a
// sandboxed child's environment, given the set that was installed and the
// path to the capability state file the child can read for full detail.
//
// NONO_ALLOWED is a colon-joined list of grant paths, per spec.md §4.9 (the
// scope/mode detail that distinguishes a File grant from a Tree grant lives
// in the state file and the dry-run table, not here, so a child can split
// this on ":" and get back plain paths). NONO_BLOCKED lists only the
// sensitive-registry entries that were not also explicitly granted, so a
// child can tell what is categorically off-limits versus merely
// ungranted.
func ExportEnvironment(set *Set, sensitive []SensitiveEntry, capFile string) map[string]string {
	grants := set.Iter()
	allowed := make([]string, 0, len(grants))

	for _, g := range grants {
		allowed = append(allowed, g.Path.String())
	}

	blocked := make([]string, 0, len(sensitive))

	for _, e := range sensitive {
		if set.Covers(e.Path, Read) || set.Covers(e.Path, Write) {
			continue
		}

		blocked = append(blocked, e.Path.String())
	}

	sort.Strings(blocked)

	return map[string]string{
		EnvSandboxed: "1",
		EnvActive:    "1",
		EnvAllowed:   strings.Join(allowed, ":"),
		EnvNet:       set.Network().String(),
		EnvBlocked:   strings.Join(blocked, ":"),
		EnvHelp:      "run `nono why --self --path <path>` inside this sandbox to see why a path is allowed or blocked",
		EnvCapFile:   capFile,
	}
}
