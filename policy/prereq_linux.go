//go:build linux

package policy

import (
	"fmt"
	"os"
)

// CheckPrerequisites validates that this host can actually install a
// Landlock policy before the policy is compiled, mirroring the
// teacher's checkPlatformPrerequisites fail-fast-before-the-expensive-path
// convention (run.go). Landlock is a per-thread kernel feature gated on
// CONFIG_SECURITY_LANDLOCK; /sys/kernel/security/landlock only exists when
// the LSM is enabled, which is the same signal the kernel documentation
// recommends checking before attempting a restrict call.
func CheckPrerequisites() error {
	if _, err := os.Stat("/sys/kernel/security/landlock"); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("checking platform prerequisites: landlock LSM not enabled on this kernel (CONFIG_SECURITY_LANDLOCK)")
		}
		// Permission or other stat failures are not fatal here: go-landlock's
		// BestEffort() mode already degrades gracefully at install time, and
		// a stricter reading of a denied stat would reject hosts that can
		// actually sandbox fine (e.g. hardened /sys mounts).
	}

	return nil
}
