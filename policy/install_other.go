//go:build !linux && !darwin

package policy

import "fmt"

func install(Artifact, Child) error {
	return &Error{Kind: InstallError, Err: fmt.Errorf("policy: no sandbox backend for this operating system")}
}
