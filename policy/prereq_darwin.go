//go:build darwin

package policy

import (
	"fmt"
	"os/exec"
)

// CheckPrerequisites validates that sandbox-exec is available before the
// policy is compiled, mirroring the teacher's
// checkPlatformPrerequisites (run.go), which likewise looks up bwrap ahead
// of time rather than discovering its absence mid-install.
func CheckPrerequisites() error {
	if _, err := exec.LookPath("sandbox-exec"); err != nil {
		return fmt.Errorf("checking platform prerequisites: sandbox-exec not found in PATH")
	}

	return nil
}
