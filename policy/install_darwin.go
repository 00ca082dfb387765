//go:build darwin

package policy

import (
	"fmt"
	"os/exec"
	"syscall"
)

func install(artifact Artifact, child Child) error {
	a, ok := artifact.(*darwinArtifact)
	if !ok {
		return &Error{Kind: PolicyError, Err: fmt.Errorf("policy: wrong artifact type for darwin installer: %T", artifact)}
	}

	sandboxExec, err := exec.LookPath("sandbox-exec")
	if err != nil {
		return &Error{Kind: InstallError, Err: fmt.Errorf("locate sandbox-exec: %w", err)}
	}

	// sandbox-exec applies the profile to the process it execs, which is
	// what makes this irreversible from the child's point of view: the
	// child never runs without the profile already active. We exec
	// sandbox-exec itself rather than forking it, so our own process image
	// becomes the sandboxed launcher with no intervening unsandboxed step.
	argv := append([]string{sandboxExec, "-p", a.profile, "--", child.Path}, child.Argv[1:]...)

	if err := syscall.Exec(sandboxExec, argv, child.Env); err != nil {
		return &Error{Kind: ExecError, Err: fmt.Errorf("exec sandbox-exec: %w", err)}
	}

	panic("unreachable: syscall.Exec returned without error")
}
