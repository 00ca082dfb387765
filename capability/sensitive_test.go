package capability

import (
	"path/filepath"
	"testing"
)

func TestSensitiveRegistryExpandsHome(t *testing.T) {
	t.Parallel()

	home := "/home/alice"
	entries := SensitiveRegistry(home)

	want := filepath.Join(home, ".ssh")

	var found bool

	for _, e := range entries {
		if e.Path.String() == want {
			found = true

			if e.Category != "ssh keys" {
				t.Errorf("category = %q, want %q", e.Category, "ssh keys")
			}
		}
	}

	if !found {
		t.Fatalf("SensitiveRegistry(%q) missing %q", home, want)
	}
}

func TestSensitiveRegistryCoversAllCategories(t *testing.T) {
	t.Parallel()

	entries := SensitiveRegistry("/home/alice")

	wantPaths := []string{
		"/home/alice/.ssh",
		"/home/alice/.aws",
		"/home/alice/.config/gcloud",
		"/home/alice/.netrc",
		"/home/alice/.bashrc",
		"/home/alice/.zshrc",
		"/home/alice/.bash_profile",
		"/home/alice/.zprofile",
		"/home/alice/.profile",
		"/home/alice/.gnupg",
		"/home/alice/.kube",
		"/home/alice/.docker",
		"/home/alice/.npmrc",
		"/home/alice/.pypirc",
	}

	got := make(map[string]bool, len(entries))
	for _, e := range entries {
		got[e.Path.String()] = true
	}

	for _, p := range wantPaths {
		if !got[p] {
			t.Errorf("SensitiveRegistry missing %q", p)
		}
	}
}

func TestMatchSensitiveLongestPrefix(t *testing.T) {
	t.Parallel()

	entries := SensitiveRegistry("/home/alice")

	got, ok := MatchSensitive(entries, Path("/home/alice/.ssh/id_ed25519"))
	if !ok {
		t.Fatal("MatchSensitive did not match descendant of ~/.ssh")
	}

	if got.Category != "ssh keys" {
		t.Errorf("category = %q, want %q", got.Category, "ssh keys")
	}

	if _, ok := MatchSensitive(entries, Path("/home/alice/project")); ok {
		t.Error("MatchSensitive matched an unrelated path")
	}
}
