package capability

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path is an absolute, symlink-resolved, lexically normalized filesystem
// path: no "." or ".." components, no trailing separator except at the
// root. It is a distinct type (not a bare string) so that callers cannot
// accidentally feed an un-canonicalized string into the capability set or
// the policy compiler.
type Path string

// String implements fmt.Stringer.
func (p Path) String() string { return string(p) }

// HasPrefix reports whether p is q or a descendant of q.
//
// Both paths are assumed already canonical (absolute, cleaned). The root
// path "/" is a prefix of every path.
func (p Path) HasPrefix(q Path) bool {
	ps, qs := string(p), string(q)
	if ps == qs {
		return true
	}

	if qs == "/" {
		return strings.HasPrefix(ps, "/")
	}

	return strings.HasPrefix(ps, qs+"/")
}

// Depth returns the number of path components below root. "/" has depth 0.
func (p Path) Depth() int {
	s := string(p)
	if s == "/" {
		return 0
	}

	return strings.Count(s, "/")
}

// CanonicalizeErrorKind classifies why canonicalization failed, per spec.md
// §4.1.
type CanonicalizeErrorKind int

const (
	// DoesNotExist means the path (after symlink resolution) has no entry on
	// the host filesystem. The sandbox refuses to grant access to targets it
	// cannot name: the policy compilers cannot encode a path that may later
	// materialize as a symlink.
	DoesNotExist CanonicalizeErrorKind = iota + 1
	// NotPermittedToStat means stat-ing a path component failed with a
	// permission error.
	NotPermittedToStat
	// InvalidEncoding means the input string is not valid for the host
	// filesystem's path encoding (e.g. contains a NUL byte).
	InvalidEncoding
)

// String renders the error kind for messages and the why engine.
func (k CanonicalizeErrorKind) String() string {
	switch k {
	case DoesNotExist:
		return "does_not_exist"
	case NotPermittedToStat:
		return "not_permitted_to_stat"
	case InvalidEncoding:
		return "invalid_encoding"
	default:
		return "unknown"
	}
}

// CanonicalizeError is returned by Canonicalize on failure.
type CanonicalizeError struct {
	Kind  CanonicalizeErrorKind
	Input string
	Err   error
}

func (e *CanonicalizeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("canonicalize %q: %s: %v", e.Input, e.Kind, e.Err)
	}

	return fmt.Sprintf("canonicalize %q: %s", e.Input, e.Kind)
}

func (e *CanonicalizeError) Unwrap() error { return e.Err }

// maxSymlinkHops bounds the number of filepath.EvalSymlinks passes that
// resolveSymlinks makes while looking for a fixed point. A symlink cycle
// itself is reported by filepath.EvalSymlinks ("too many links") on the
// pass that meets it.
const maxSymlinkHops = 40

// Canonicalize expands ~, resolves the path relative to cwd if needed,
// resolves symlinks at every component until a fixed point, and lexically
// collapses "." and ".." on the result. See spec.md §4.1.
//
// Non-existent paths are an error (DoesNotExist): the compiled policy
// artifacts name concrete paths and cannot safely grant access to a path
// that does not yet exist, since a later symlink planted at that name could
// silently redirect the grant.
func Canonicalize(input, home, cwd string) (Path, error) {
	if strings.IndexByte(input, 0) >= 0 {
		return "", &CanonicalizeError{Kind: InvalidEncoding, Input: input, Err: errors.New("path contains a NUL byte")}
	}

	if strings.TrimSpace(input) == "" {
		return "", &CanonicalizeError{Kind: InvalidEncoding, Input: input, Err: errors.New("path is empty")}
	}

	expanded := expandTilde(input, home)

	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(cwd, expanded)
	}

	resolved, err := resolveSymlinks(expanded)
	if err != nil {
		var kind CanonicalizeErrorKind

		switch {
		case os.IsNotExist(err):
			kind = DoesNotExist
		case os.IsPermission(err):
			kind = NotPermittedToStat
		default:
			kind = NotPermittedToStat
		}

		return "", &CanonicalizeError{Kind: kind, Input: input, Err: err}
	}

	cleaned := filepath.Clean(resolved)

	if _, err := os.Lstat(cleaned); err != nil {
		if os.IsNotExist(err) {
			return "", &CanonicalizeError{Kind: DoesNotExist, Input: input, Err: err}
		}

		return "", &CanonicalizeError{Kind: NotPermittedToStat, Input: input, Err: err}
	}

	return Path(cleaned), nil
}

func expandTilde(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	default:
		return path
	}
}

// resolveSymlinks runs filepath.EvalSymlinks repeatedly until the result no
// longer changes, giving up after maxSymlinkHops passes. EvalSymlinks
// requires the full path to exist, so a missing component yields ENOENT,
// which Canonicalize reports as DoesNotExist.
func resolveSymlinks(path string) (string, error) {
	for hop := 0; hop < maxSymlinkHops; hop++ {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return "", err
		}

		if resolved == path {
			return resolved, nil
		}

		path = resolved
	}

	return "", fmt.Errorf("too many symlink hops (possible cycle) resolving %q", path)
}
