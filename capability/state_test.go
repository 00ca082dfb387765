package capability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewStateDeterministicOrdering(t *testing.T) {
	t.Parallel()

	s := NewSet()
	s.Insert("/b", File, Read)
	s.Insert("/a", Tree, ReadWrite)
	s.SetNetwork(Blocked)

	sensitive := []SensitiveEntry{
		{Path: "/home/alice/.ssh", Category: "ssh keys"},
	}

	state := NewState(s, "/work", sensitive)

	want := &State{
		Version: StateFileVersion,
		Workdir: "/work",
		Network: "blocked",
		Grants: []stateGrant{
			{Path: "/a", Scope: "tree", Mode: "readwrite"},
			{Path: "/b", Scope: "file", Mode: "read"},
		},
		Sensitive: []stateSensitive{
			{Path: "/home/alice/.ssh", Category: "ssh keys"},
		},
	}

	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("NewState mismatch (-want +got):\n%s", diff)
	}
}

func TestStateWriteAndReadRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewSet()
	s.Insert("/proj", Tree, ReadWrite)

	state := NewState(s, "/proj", nil)

	path := filepath.Join(t.TempDir(), "nono-state.json")
	if err := state.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadStateFile(path)
	if err != nil {
		t.Fatalf("ReadStateFile: %v", err)
	}

	if diff := cmp.Diff(state, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStateFileModeIsOwnerOnly(t *testing.T) {
	t.Parallel()

	s := NewSet()
	state := NewState(s, "/proj", nil)

	path := filepath.Join(t.TempDir(), "nono-state.json")
	if err := state.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("state file mode = %o, want 0600", perm)
	}
}
