//go:build !linux && !darwin

package policy

import (
	"fmt"
	"runtime"
)

// CheckPrerequisites always fails on an unsupported OS, the same
// fail-fast-before-the-expensive-path shape as the Linux and Darwin
// variants: this backend has no installer at all (see compile_other.go).
func CheckPrerequisites() error {
	return fmt.Errorf("checking platform prerequisites: no sandbox backend for %s", runtime.GOOS)
}
