package capability

import (
	"encoding/json"
	"fmt"
	"os"
)

// StateFileVersion is the schema version written to the capability state
// file. A version bump is required any time a field is added, removed, or
// reinterpreted.
const StateFileVersion = 1

// stateGrant is the on-disk shape of one Grant, per spec.md §4.6.
type stateGrant struct {
	Path  string `json:"path"`
	Scope string `json:"scope"`
	Mode  string `json:"mode"`
}

// stateSensitive is the on-disk shape of one SensitiveEntry.
type stateSensitive struct {
	Path     string `json:"path"`
	Category string `json:"category"`
}

// State is the JSON document written to the capability state file and read
// back by the why engine and by a sandboxed child inspecting its own
// capabilities via NONO_CAP_FILE.
type State struct {
	Version   int              `json:"version"`
	Workdir   string           `json:"workdir"`
	Network   string           `json:"network"`
	Grants    []stateGrant     `json:"grants"`
	Sensitive []stateSensitive `json:"sensitive"`
}

// NewState builds a State document from a capability set, a working
// directory, and the expanded sensitive registry. Both Grants and Sensitive
// are emitted in deterministic order so the file is stable across runs with
// identical inputs (spec.md §8).
func NewState(set *Set, workdir string, sensitive []SensitiveEntry) *State {
	grants := set.Iter()
	stateGrants := make([]stateGrant, 0, len(grants))

	for _, g := range grants {
		stateGrants = append(stateGrants, stateGrant{
			Path:  g.Path.String(),
			Scope: g.Scope.String(),
			Mode:  g.Mode.JSON(),
		})
	}

	stateSensitives := make([]stateSensitive, 0, len(sensitive))
	for _, e := range sensitive {
		stateSensitives = append(stateSensitives, stateSensitive{
			Path:     e.Path.String(),
			Category: e.Category,
		})
	}

	return &State{
		Version:   StateFileVersion,
		Workdir:   workdir,
		Network:   set.Network().String(),
		Grants:    stateGrants,
		Sensitive: stateSensitives,
	}
}

// Marshal renders the state document as indented JSON, terminated with a
// trailing newline so the file is POSIX-text-friendly.
func (s *State) Marshal() ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("capability: marshal state: %w", err)
	}

	return append(out, '\n'), nil
}

// WriteFile writes the state document to path with mode 0600: the file
// names every path the sandboxed child can touch and must not be
// world-readable.
func (s *State) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("capability: write state file %q: %w", path, err)
	}

	return nil
}

// ReadStateFile reads and parses a capability state file written by
// WriteFile.
func ReadStateFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capability: read state file %q: %w", path, err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("capability: parse state file %q: %w", path, err)
	}

	return &s, nil
}
