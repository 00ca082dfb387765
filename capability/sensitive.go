package capability

import "path/filepath"

// SensitiveEntry is one entry in the default-deny registry: a concrete,
// canonicalized path paired with a human-readable category. See spec.md
// §4.2.
type SensitiveEntry struct {
	Path     Path
	Category string
}

// sensitivePattern is a home-relative or absolute pattern from the static
// registry, before expansion against a concrete home directory.
type sensitivePattern struct {
	pattern  string
	category string
}

// sensitiveRegistry is the static catalog of categorized sensitive
// locations. Patterns are either "~/..." (expanded against the invoking
// user's home directory) or absolute. This list is deliberately small and
// fixed at compile time; it is not user-extensible by design (spec.md §4.2
// enumerates exactly these entries).
var sensitiveRegistry = []sensitivePattern{
	{"~/.ssh", "ssh keys"},
	{"~/.aws", "aws credentials"},
	{"~/.config/gcloud", "gcloud"},
	{"~/.netrc", "netrc"},
	{"~/.bashrc", "shell config"},
	{"~/.zshrc", "shell config"},
	{"~/.bash_profile", "shell config"},
	{"~/.zprofile", "shell config"},
	{"~/.profile", "shell config"},
	{"~/.gnupg", "gpg keys"},
	{"~/.kube", "kubernetes"},
	{"~/.docker", "docker"},
	{"~/.npmrc", "package tokens"},
	{"~/.pypirc", "package tokens"},
}

// SensitiveRegistry expands the static sensitive-path table against home.
// It does not require the paths to exist: a sensitive-path default-deny
// applies whether or not ~/.ssh has been created yet, because it still
// governs where a child might later write one.
//
// The result is expanded once per process (per call here); callers
// typically expand it once during capability-set construction and reuse it.
func SensitiveRegistry(home string) []SensitiveEntry {
	out := make([]SensitiveEntry, 0, len(sensitiveRegistry))

	for _, p := range sensitiveRegistry {
		expanded := p.pattern
		if expanded == "~" {
			expanded = home
		} else if len(expanded) >= 2 && expanded[:2] == "~/" {
			expanded = filepath.Join(home, expanded[2:])
		}

		out = append(out, SensitiveEntry{Path: Path(filepath.Clean(expanded)), Category: p.category})
	}

	return out
}

// MatchSensitive looks up p in entries by prefix (p is the entry's path or a
// descendant of it) and returns the longest (most specific) match.
func MatchSensitive(entries []SensitiveEntry, p Path) (SensitiveEntry, bool) {
	var (
		best      SensitiveEntry
		bestDepth = -1
		found     bool
	)

	for _, e := range entries {
		if !p.HasPrefix(e.Path) {
			continue
		}

		if depth := e.Path.Depth(); depth > bestDepth {
			best, bestDepth, found = e, depth, true
		}
	}

	return best, found
}
