// Package policy compiles a capability.Set into an OS-specific sandbox
// policy artifact and installs it irreversibly before the child is exec'd.
//
// The package is split the way the teacher splits its sandbox backends: a
// shared contract in this file, plus build-tagged files per OS
// (compile_linux.go/install_linux.go for Landlock,
// compile_darwin.go/install_darwin.go for Seatbelt, and
// compile_other.go/install_other.go for everything else).
package policy

import (
	"fmt"

	"github.com/jacobsgrj/nono/capability"
)

// Artifact is a compiled, backend-specific policy. It is opaque to callers
// outside this package; Bytes exists only for logging and the determinism
// tests in §8 of the design (same Set + same network policy must compile to
// byte-identical output).
type Artifact interface {
	// Backend names the compiler that produced this artifact ("landlock",
	// "seatbelt").
	Backend() string
	// Bytes renders the artifact's canonical serialization. Two artifacts
	// compiled from equal inputs must render identical bytes.
	Bytes() []byte
}

// Child describes the process to exec once the policy is installed.
type Child struct {
	Path string
	Argv []string
	Env  []string
}

// ErrorKind classifies a policy-layer failure, matching the PolicyError,
// InstallError, and ExecError kinds.
type ErrorKind int

const (
	// PolicyError means compilation produced an artifact the kernel
	// rejects, or the inputs could not be translated at all.
	PolicyError ErrorKind = iota + 1
	// InstallError means the kernel refused to install a valid-looking
	// policy (e.g. more than one OS thread, already sandboxed).
	InstallError
	// ExecError means the child binary could not be found or launched.
	ExecError
)

func (k ErrorKind) String() string {
	switch k {
	case PolicyError:
		return "policy_error"
	case InstallError:
		return "install_error"
	case ExecError:
		return "exec_error"
	default:
		return "unknown"
	}
}

// Error wraps a policy-layer failure with its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Compile translates set into the host OS's policy artifact. The
// sensitive registry is not an input: the default-deny read/write sets
// already exclude anything not explicitly granted.
//
// Compile is implemented per-OS; see compile_linux.go, compile_darwin.go,
// compile_other.go.
func Compile(set *capability.Set) (Artifact, error) {
	return compile(set)
}

// Install applies artifact to the current process and then replaces the
// process image with child. On success Install does not return: the
// process has become child. On failure it returns an *Error and the
// caller must not proceed to any state that assumes a policy is active.
//
// Install is implemented per-OS; see install_linux.go, install_darwin.go,
// install_other.go.
func Install(artifact Artifact, child Child) error {
	return install(artifact, child)
}

// BootstrapPaths returns the fixed set of system read paths every backend
// allows regardless of the capability set, so any dynamically linked
// program can start. It never includes home directories, /tmp, or user
// config; see bootstrap.go for the concrete list (the Linux backend keeps
// only the entries that exist on the host).
func BootstrapPaths() []string {
	return bootstrapPaths()
}
