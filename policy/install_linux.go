//go:build linux

package policy

import (
	"fmt"
	"os"

	"github.com/landlock-lsm/go-landlock/landlock"
	"golang.org/x/sys/unix"

	"github.com/jacobsgrj/nono/capability"
)

// singleThreaded reports whether the calling process currently has exactly
// one OS thread. Landlock restricts the calling thread (and, since
// RestrictPaths locks the OS thread and applies to every thread sharing
// the process's Landlock domain, effectively the process), but an
// unsandboxed thread racing the install call could still observe the old,
// unrestricted state. The installer refuses to proceed if it finds more
// than one.
func singleThreaded() (bool, error) {
	entries, err := os.ReadDir("/proc/self/task")
	if err != nil {
		return false, fmt.Errorf("read /proc/self/task: %w", err)
	}

	return len(entries) <= 1, nil
}

func install(artifact Artifact, child Child) error {
	ok, err := singleThreaded()
	if err != nil {
		return &Error{Kind: InstallError, Err: err}
	}

	if !ok {
		return &Error{Kind: InstallError, Err: fmt.Errorf("process has more than one OS thread; refusing to install policy")}
	}

	a, ok := artifact.(*linuxArtifact)
	if !ok {
		return &Error{Kind: PolicyError, Err: fmt.Errorf("policy: wrong artifact type for linux installer: %T", artifact)}
	}

	if a.net == capability.Blocked {
		// Landlock has no network primitive in the ABI versions go-landlock
		// exposes here; block all outbound traffic by dropping the process
		// into a fresh, veth-less network namespace instead.
		if err := unix.Unshare(unix.CLONE_NEWNET); err != nil {
			return &Error{Kind: InstallError, Err: fmt.Errorf("unshare network namespace: %w", err)}
		}
	}

	opts := make([]landlock.PathOpt, 0, 4)
	if len(a.roDirs) > 0 {
		opts = append(opts, landlock.RODirs(a.roDirs...))
	}

	if len(a.rwDirs) > 0 {
		opts = append(opts, landlock.RWDirs(a.rwDirs...))
	}

	if len(a.roFiles) > 0 {
		opts = append(opts, landlock.ROFiles(a.roFiles...))
	}

	if len(a.rwFiles) > 0 {
		opts = append(opts, landlock.RWFiles(a.rwFiles...))
	}

	if err := landlock.V3.BestEffort().RestrictPaths(opts...); err != nil {
		return &Error{Kind: InstallError, Err: fmt.Errorf("landlock restrict paths: %w", err)}
	}

	// Landlock alone still lets the child raise its own privileges via a
	// setuid binary; PR_SET_NO_NEW_PRIVS closes that independently of the
	// path-filter policy and, once set, cannot be unset by this process or
	// any descendant (the same one-way ratchet spec.md §4.5 requires of
	// sandbox installation itself).
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return &Error{Kind: InstallError, Err: fmt.Errorf("prctl(PR_SET_NO_NEW_PRIVS): %w", err)}
	}

	if err := unix.Exec(child.Path, child.Argv, child.Env); err != nil {
		return &Error{Kind: ExecError, Err: fmt.Errorf("exec %s: %w", child.Path, err)}
	}

	panic("unreachable: unix.Exec returned without error")
}
