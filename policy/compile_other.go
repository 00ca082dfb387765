//go:build !linux && !darwin

package policy

import (
	"fmt"

	"github.com/jacobsgrj/nono/capability"
)

type unsupportedArtifact struct{}

func (unsupportedArtifact) Backend() string { return "unsupported" }
func (unsupportedArtifact) Bytes() []byte   { return nil }

func bootstrapPaths() []string { return nil }

func compile(*capability.Set) (Artifact, error) {
	return nil, &Error{Kind: PolicyError, Err: fmt.Errorf("policy: no sandbox backend for this operating system")}
}
