package capability

import "sort"

// entryKey is the internal key for one (path, scope) slot.
type entryKey struct {
	path  Path
	scope Scope
}

// Set is a normalized, deduplicated, conflict-resolved grant table. See
// spec.md §3 and §4.3 for the invariants it maintains:
//
//   - only one (Scope, Mode) per Path is retained; duplicates collapse via
//     mode-join
//   - if both File and Tree grants exist for the same Path, Tree wins
//   - Tree entries form an antichain: a Tree entry whose path is a
//     descendant of another Tree entry is dropped after its mode is joined
//     into the ancestor
//
// The zero value is an empty, usable Set. Set is built via repeated Insert
// calls and is not safe for concurrent mutation; once construction is done
// the caller should treat it as read-only (Set itself does not enforce
// this, mirroring the teacher's Sandbox "must not be copied/mutated after
// first use" convention rather than adding locking machinery nobody needs).
type Set struct {
	network Network

	// entries holds File-scope and standalone Tree-scope grants, keyed by
	// (path, scope). Insert maintains the Tree-antichain invariant directly
	// on this map rather than as a post-processing pass.
	entries map[entryKey]Mode
}

// NewSet returns an empty capability set with the default network policy
// (Allowed).
func NewSet() *Set {
	return &Set{entries: make(map[entryKey]Mode)}
}

// Network returns the set's network policy.
func (s *Set) Network() Network { return s.network }

// SetNetwork sets the network policy.
func (s *Set) SetNetwork(n Network) { s.network = n }

// Insert adds a grant, applying the join and dominance rules from spec.md
// §3. path must already be canonicalized (see Canonicalize).
func (s *Set) Insert(path Path, scope Scope, mode Mode) {
	if s.entries == nil {
		s.entries = make(map[entryKey]Mode)
	}

	switch scope {
	case File:
		s.insertFile(path, mode)
	case Tree:
		s.insertTree(path, mode)
	}
}

func (s *Set) insertFile(path Path, mode Mode) {
	// A Tree grant at this exact path already dominates: the File grant's
	// mode is joined into that Tree entry and no File entry is kept.
	if treeMode, ok := s.entries[entryKey{path, Tree}]; ok {
		s.entries[entryKey{path, Tree}] = treeMode.Join(mode)
		return
	}

	// A Tree ancestor that already covers this mode makes the File grant
	// add nothing, so it is dropped rather than kept as a redundant entry
	// (spec.md §3).
	for key, treeMode := range s.entries {
		if key.scope == Tree && key.path != path && path.HasPrefix(key.path) && treeMode.Covers(mode) {
			return
		}
	}

	key := entryKey{path, File}
	s.entries[key] = s.entries[key].Join(mode)
}

func (s *Set) insertTree(path Path, mode Mode) {
	// Fold into an existing ancestor Tree grant rather than adding a
	// redundant descendant entry.
	for key, existing := range s.entries {
		if key.scope != Tree || key.path == path {
			continue
		}

		if path.HasPrefix(key.path) {
			joined := existing.Join(mode)
			s.entries[key] = joined
			s.pruneCoveredFiles(key.path, joined)

			return
		}
	}

	// This Tree grant becomes (or stays) the ancestor: absorb any existing
	// Tree entries that are its descendants, and any File entry at the same
	// path (Tree always wins over File at an identical path).
	joined := mode
	for key, existing := range s.entries {
		if key.scope == Tree && key.path != path && key.path.HasPrefix(path) {
			joined = joined.Join(existing)
			delete(s.entries, key)
		}
	}

	if fileMode, ok := s.entries[entryKey{path, File}]; ok {
		joined = joined.Join(fileMode)
		delete(s.entries, entryKey{path, File})
	}

	if existing, ok := s.entries[entryKey{path, Tree}]; ok {
		joined = joined.Join(existing)
	}

	s.entries[entryKey{path, Tree}] = joined
	s.pruneCoveredFiles(path, joined)
}

// pruneCoveredFiles drops File entries strictly below treePath whose mode is
// already fully covered by the Tree grant at treePath: spec.md §3's "the
// former adds nothing; in that case it is dropped" applies regardless of
// which grant was inserted first.
func (s *Set) pruneCoveredFiles(treePath Path, treeMode Mode) {
	for key, fileMode := range s.entries {
		if key.scope != File || key.path == treePath {
			continue
		}

		if key.path.HasPrefix(treePath) && treeMode.Covers(fileMode) {
			delete(s.entries, key)
		}
	}
}

// Covers reports whether the set grants p with mode superseding want,
// ignoring the sensitive registry (see spec.md §3's "Effective decision").
func (s *Set) Covers(p Path, want Mode) bool {
	for key, mode := range s.entries {
		if !mode.Covers(want) {
			continue
		}

		switch key.scope {
		case File:
			if key.path == p {
				return true
			}
		case Tree:
			if p.HasPrefix(key.path) {
				return true
			}
		}
	}

	return false
}

// Grant looks up the exact (path, scope) entry backing a covering decision
// for p, if any. It returns the most specific covering grant: an exact File
// match beats a Tree ancestor; among Tree ancestors, the deepest wins.
func (s *Set) Grant(p Path, want Mode) (Grant, bool) {
	var (
		best      Grant
		bestDepth = -1
		found     bool
	)

	for key, mode := range s.entries {
		if !mode.Covers(want) {
			continue
		}

		switch key.scope {
		case File:
			if key.path == p {
				return Grant{Path: key.path, Scope: File, Mode: mode}, true
			}
		case Tree:
			if p.HasPrefix(key.path) {
				if depth := key.path.Depth(); depth > bestDepth {
					best = Grant{Path: key.path, Scope: Tree, Mode: mode}
					bestDepth = depth
					found = true
				}
			}
		}
	}

	return best, found
}

// Len returns the number of grants in the set.
func (s *Set) Len() int { return len(s.entries) }

// Iter returns the set's grants in the deterministic order spec.md §4.3
// requires: sorted by path, then File before Tree, then Read < Write <
// ReadWrite.
func (s *Set) Iter() []Grant {
	out := make([]Grant, 0, len(s.entries))

	for key, mode := range s.entries {
		out = append(out, Grant{Path: key.path, Scope: key.scope, Mode: mode})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}

		if a.Scope != b.Scope {
			return a.Scope == File
		}

		return a.Mode < b.Mode
	})

	return out
}
