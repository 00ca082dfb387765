// Package capability implements the normalized grant model that the rest of
// nono is built on: canonicalized filesystem paths, the sensitive-path
// registry, and the capability set those paths are inserted into.
//
// capability does not know about bwrap, landlock, or seatbelt. It is the
// single source of truth that the policy package compiles and the query
// package replays; both depend on capability, never the reverse.
//
// # Lifecycle
//
// A Set is built once from CLI-sourced grants (Insert per flag, in flag
// order), then frozen by the caller before it is handed to the policy
// compiler, the state file writer, and the why engine. Set is not safe for
// concurrent mutation, but a frozen Set is safe to read from multiple
// goroutines.
package capability

import "fmt"

// Mode is a filesystem access mode. Modes form a lattice under Join: Read and
// Write are incomparable, ReadWrite is their join, and joining any mode with
// itself is a no-op.
type Mode int

const (
	// Read grants read access.
	Read Mode = 1 << iota
	// Write grants write access.
	Write
)

// ReadWrite is the join of Read and Write.
const ReadWrite = Read | Write

// Join returns the least upper bound of m and other.
func (m Mode) Join(other Mode) Mode {
	return m | other
}

// Covers reports whether m grants at least the access described by want.
func (m Mode) Covers(want Mode) bool {
	return want&^m == 0
}

// String renders the mode the way the dry-run reporter displays it:
// "rw", "r-", or "-w".
func (m Mode) String() string {
	switch m {
	case ReadWrite:
		return "rw"
	case Read:
		return "r-"
	case Write:
		return "-w"
	default:
		return "--"
	}
}

// Tag renders the mode as the bracketed dry-run tag, e.g. "[rw]".
func (m Mode) Tag() string {
	return "[" + m.String() + "]"
}

// ParseMode parses the CLI/JSON spelling of a mode ("read", "write",
// "readwrite").
func ParseMode(s string) (Mode, error) {
	switch s {
	case "read":
		return Read, nil
	case "write":
		return Write, nil
	case "readwrite":
		return ReadWrite, nil
	default:
		return 0, fmt.Errorf("capability: unknown mode %q", s)
	}
}

// JSON returns the capability-state-file spelling of the mode.
func (m Mode) JSON() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "readwrite"
	default:
		return "none"
	}
}

// Scope is the reach of a grant: a single path (File) or a path plus all of
// its descendants (Tree).
type Scope int

const (
	// File scope applies to exactly one path.
	File Scope = iota + 1
	// Tree scope applies to a path and every descendant.
	Tree
)

// String renders the scope the way JSON/debug output spells it.
func (s Scope) String() string {
	switch s {
	case File:
		return "file"
	case Tree:
		return "tree"
	default:
		return "unknown"
	}
}

// ParseScope parses the CLI/JSON spelling of a scope ("file", "tree").
func ParseScope(s string) (Scope, error) {
	switch s {
	case "file":
		return File, nil
	case "tree":
		return Tree, nil
	default:
		return 0, fmt.Errorf("capability: unknown scope %q", s)
	}
}

// Network is the binary network policy. The zero value is Allowed so that a
// zero-value Set behaves like "network enabled" the way the teacher's
// sandbox.Config treats a nil Network pointer as enabled-by-default.
type Network int

const (
	// Allowed means outbound network access is unrestricted.
	Allowed Network = iota
	// Blocked means outbound network access is denied.
	Blocked
)

// String renders the network policy the way JSON/debug output spells it.
func (n Network) String() string {
	if n == Blocked {
		return "blocked"
	}

	return "allowed"
}

// Grant is one (Path, Scope, Mode) entry in a capability set.
type Grant struct {
	Path  Path
	Scope Scope
	Mode  Mode
}
