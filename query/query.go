// Package query implements the offline "why" decision engine: it replays
// the same allow/deny logic the installed sandbox policy enforces, without
// touching the filesystem beyond canonicalization, and produces an
// actionable remediation suggestion for denials. See spec.md §4.7.
//
// query depends on capability (for the Set, Path, and sensitive registry)
// and policy (only for the bootstrap path list, so "why" can explain a
// system_path allow the same way the compiled policy grants it). Neither
// capability nor policy depends back on query.
package query

import (
	"fmt"

	"github.com/jacobsgrj/nono/capability"
	"github.com/jacobsgrj/nono/policy"
)

// Status is the top-level outcome of a probe.
type Status string

const (
	// StatusAllowed means the probe would succeed under the capability set.
	StatusAllowed Status = "allowed"
	// StatusDenied means the probe would fail.
	StatusDenied Status = "denied"
	// StatusNotSandboxed means --self was requested but the process is not
	// running under a nono sandbox (NONO_CAP_FILE is unset, or its file
	// cannot be read).
	StatusNotSandboxed Status = "not_sandboxed"
)

// Reason explains a Status in more detail.
type Reason string

const (
	// ReasonExplicitGrant means a user-supplied grant covers the probe.
	ReasonExplicitGrant Reason = "explicit_grant"
	// ReasonWithinWorkdir means the covering grant is the workdir grant
	// itself.
	ReasonWithinWorkdir Reason = "within_workdir"
	// ReasonSystemPath means the probe falls under the policy compiler's
	// fixed bootstrap read set.
	ReasonSystemPath Reason = "system_path"
	// ReasonSensitivePath means the probe matched the sensitive-path
	// registry and no grant opted in.
	ReasonSensitivePath Reason = "sensitive_path"
	// ReasonNotInAllowedPaths means the probe matched neither a grant nor
	// the sensitive registry.
	ReasonNotInAllowedPaths Reason = "not_in_allowed_paths"
	// ReasonNetworkAllowedByDefault means the network policy is Allowed.
	ReasonNetworkAllowedByDefault Reason = "network_allowed_by_default"
	// ReasonNetworkBlocked means the network policy is Blocked.
	ReasonNetworkBlocked Reason = "network_blocked"
)

// Result is the engine's answer to a probe. Field order is alphabetical so
// that JSON marshaling (struct field order drives encoding/json's output
// order) matches spec.md §6's "keys sorted alphabetically" contract.
type Result struct {
	Category   string `json:"category,omitempty"`
	Reason     Reason `json:"reason,omitempty"`
	Status     Status `json:"status"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ProbeKind selects which of the two probe shapes spec.md §4.7 describes.
type ProbeKind int

const (
	// ProbePath is a (path, op) filesystem probe.
	ProbePath ProbeKind = iota + 1
	// ProbeNetwork is a (host, port) network probe.
	ProbeNetwork
)

// Probe is a hypothetical operation submitted to Engine.Evaluate.
type Probe struct {
	Kind ProbeKind

	// Path fields, used when Kind == ProbePath.
	Path string
	Op   capability.Mode

	// Network fields, used when Kind == ProbeNetwork. Neither is used by
	// the decision procedure today (spec.md §9's non-goals: the network
	// policy is binary, not per-host/per-port) but are carried through so
	// a future per-host policy has somewhere to land without breaking the
	// Probe shape.
	Host string
	Port int
}

// Engine replays allow/deny decisions for a fixed capability set. It holds
// exactly the inputs spec.md §4.7 lists: a capability set, a workdir, and
// the data needed to canonicalize a raw path probe (home/cwd).
type Engine struct {
	Set       *capability.Set
	Sensitive []capability.SensitiveEntry
	Workdir   capability.Path
	Home      string
	Cwd       string
}

// Evaluate runs the decision procedure from spec.md §4.7 for a single
// probe.
func (e *Engine) Evaluate(p Probe) Result {
	if p.Kind == ProbeNetwork {
		return e.evaluateNetwork()
	}

	return e.evaluatePath(p)
}

func (e *Engine) evaluateNetwork() Result {
	if e.Set.Network() == capability.Blocked {
		return Result{
			Status:     StatusDenied,
			Reason:     ReasonNetworkBlocked,
			Suggestion: "remove --net-block flag",
		}
	}

	return Result{Status: StatusAllowed, Reason: ReasonNetworkAllowedByDefault}
}

func (e *Engine) evaluatePath(p Probe) Result {
	canonical, err := capability.Canonicalize(p.Path, e.Home, e.Cwd)
	if err != nil {
		// Do not leak existence: a canonicalization failure (not found, not
		// permitted to stat, bad encoding) is reported identically to a
		// path that simply isn't granted. The raw input is still safe to
		// echo back in the suggestion: the caller already typed it.
		return e.deniedNotGranted(capability.Path(p.Path), p.Op)
	}

	// A path inside the fixed bootstrap read set is allowed by every
	// backend's compiled policy regardless of whether it is also an
	// explicit grant, so it is checked ahead of Set.Covers. Only Read
	// (and the implied Execute used to start a dynamically linked
	// program) is ever granted by the bootstrap set; a Write probe never
	// matches here.
	if p.Op&capability.Write == 0 && isBootstrapPath(canonical) {
		return Result{Status: StatusAllowed, Reason: ReasonSystemPath}
	}

	if grant, ok := e.Set.Grant(canonical, p.Op); ok {
		reason := ReasonExplicitGrant
		if grant.Path == e.Workdir && canonical.HasPrefix(e.Workdir) {
			reason = ReasonWithinWorkdir
		}

		return Result{Status: StatusAllowed, Reason: reason}
	}

	if entry, ok := capability.MatchSensitive(e.Sensitive, canonical); ok {
		return Result{
			Status:     StatusDenied,
			Reason:     ReasonSensitivePath,
			Category:   entry.Category,
			Suggestion: sensitiveSuggestion(entry.Path, p.Op),
		}
	}

	return e.deniedNotGranted(canonical, p.Op)
}

func (e *Engine) deniedNotGranted(p capability.Path, op capability.Mode) Result {
	return Result{
		Status:     StatusDenied,
		Reason:     ReasonNotInAllowedPaths,
		Suggestion: notGrantedSuggestion(p, op),
	}
}

func isBootstrapPath(p capability.Path) bool {
	for _, bp := range policy.BootstrapPaths() {
		if p.HasPrefix(capability.Path(bp)) {
			return true
		}
	}

	return false
}

// sensitiveSuggestion picks the minimal flag that would suppress the
// sensitive-path default-deny for p, per spec.md §4.7 step 4: "--read
// <registry-entry> or --allow <entry> depending on op". A Read probe needs
// only --read; a Write or ReadWrite probe needs the full --allow since a
// write-only grant on a credential directory is rarely what's meant and
// --allow is the one flag spec.md's step 4 actually names for write.
func sensitiveSuggestion(p capability.Path, op capability.Mode) string {
	if op == capability.Read {
		return fmt.Sprintf("--read %s", p)
	}

	return fmt.Sprintf("--allow %s", p)
}

// notGrantedSuggestion picks the flag matching op exactly, per spec.md
// §4.7 step 5.
func notGrantedSuggestion(p capability.Path, op capability.Mode) string {
	switch op {
	case capability.Read:
		return fmt.Sprintf("--read %s", p)
	case capability.Write:
		return fmt.Sprintf("--write %s", p)
	default:
		return fmt.Sprintf("--allow %s", p)
	}
}
