package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jacobsgrj/nono/capability"
)

func newTestEngine(t *testing.T, grants func(home, proj string) []capability.Grant) (*Engine, string, string) {
	t.Helper()

	home := t.TempDir()
	proj := t.TempDir()

	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0o700); err != nil {
		t.Fatal(err)
	}

	keyFile := filepath.Join(sshDir, "id_rsa")
	if err := os.WriteFile(keyFile, []byte("secret"), 0o600); err != nil {
		t.Fatal(err)
	}

	set := capability.NewSet()

	for _, g := range grants(home, proj) {
		set.Insert(g.Path, g.Scope, g.Mode)
	}

	return &Engine{
		Set:       set,
		Sensitive: capability.SensitiveRegistry(home),
		Workdir:   capability.Path(proj),
		Home:      home,
		Cwd:       proj,
	}, home, proj
}

func TestEvaluateExplicitGrant(t *testing.T) {
	t.Parallel()

	e, _, proj := newTestEngine(t, func(home, proj string) []capability.Grant {
		return []capability.Grant{{Path: capability.Path(proj), Scope: capability.Tree, Mode: capability.ReadWrite}}
	})

	got := e.Evaluate(Probe{Kind: ProbePath, Path: proj, Op: capability.Read})

	want := Result{Status: StatusAllowed, Reason: ReasonWithinWorkdir}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}

func TestEvaluateExplicitGrantNotWorkdir(t *testing.T) {
	t.Parallel()

	other := t.TempDir()

	e, _, _ := newTestEngine(t, func(home, proj string) []capability.Grant {
		return []capability.Grant{{Path: capability.Path(other), Scope: capability.Tree, Mode: capability.Read}}
	})

	got := e.Evaluate(Probe{Kind: ProbePath, Path: other, Op: capability.Read})

	want := Result{Status: StatusAllowed, Reason: ReasonExplicitGrant}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}

func TestEvaluateSensitivePathDenied(t *testing.T) {
	t.Parallel()

	e, home, _ := newTestEngine(t, func(home, proj string) []capability.Grant { return nil })

	sshDir := filepath.Join(home, ".ssh")
	keyFile := filepath.Join(sshDir, "id_rsa")

	got := e.Evaluate(Probe{Kind: ProbePath, Path: keyFile, Op: capability.Read})

	want := Result{
		Status:     StatusDenied,
		Reason:     ReasonSensitivePath,
		Category:   "ssh keys",
		Suggestion: "--read " + sshDir,
	}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}

func TestEvaluateSensitivePathGrantedSuppressesDenial(t *testing.T) {
	t.Parallel()

	e, home, _ := newTestEngine(t, func(home, proj string) []capability.Grant {
		return []capability.Grant{{Path: capability.Path(filepath.Join(home, ".ssh")), Scope: capability.Tree, Mode: capability.Read}}
	})

	keyFile := filepath.Join(home, ".ssh", "id_rsa")

	got := e.Evaluate(Probe{Kind: ProbePath, Path: keyFile, Op: capability.Read})

	if got.Status != StatusAllowed {
		t.Errorf("Evaluate() = %+v, want allowed (explicit grant suppresses sensitive denial)", got)
	}
}

func TestEvaluateNotInAllowedPaths(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, func(home, proj string) []capability.Grant { return nil })

	somewhere := t.TempDir()

	got := e.Evaluate(Probe{Kind: ProbePath, Path: somewhere, Op: capability.Write})

	want := Result{
		Status:     StatusDenied,
		Reason:     ReasonNotInAllowedPaths,
		Suggestion: "--write " + somewhere,
	}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}

func TestEvaluateNonexistentPathDoesNotLeak(t *testing.T) {
	t.Parallel()

	e, home, _ := newTestEngine(t, func(home, proj string) []capability.Grant { return nil })

	missing := filepath.Join(home, "does-not-exist")

	got := e.Evaluate(Probe{Kind: ProbePath, Path: missing, Op: capability.Read})

	if got.Status != StatusDenied || got.Reason != ReasonNotInAllowedPaths {
		t.Errorf("Evaluate() = %+v, want denied/not_in_allowed_paths", got)
	}
}

func TestEvaluateNetworkDefault(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, func(home, proj string) []capability.Grant { return nil })

	got := e.Evaluate(Probe{Kind: ProbeNetwork, Host: "example.com", Port: 443})

	want := Result{Status: StatusAllowed, Reason: ReasonNetworkAllowedByDefault}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}

func TestEvaluateNetworkBlocked(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, func(home, proj string) []capability.Grant { return nil })
	e.Set.SetNetwork(capability.Blocked)

	got := e.Evaluate(Probe{Kind: ProbeNetwork, Host: "example.com", Port: 443})

	want := Result{Status: StatusDenied, Reason: ReasonNetworkBlocked, Suggestion: "remove --net-block flag"}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}
