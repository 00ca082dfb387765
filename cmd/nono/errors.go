package main

import "fmt"

// ErrorKind classifies a CLI-layer failure per spec.md §7. The policy
// package defines its own ErrorKind for PolicyError/InstallError/ExecError;
// these three cover the failures that can occur before a policy.Artifact
// even exists.
type ErrorKind int

const (
	// UsageErrorKind means malformed or unsupported arguments: an unknown
	// flag, a bad --op value, a why call without --path or --host, or
	// --profile.
	UsageErrorKind ErrorKind = iota + 1
	// PathErrorKind means a grant's path could not be canonicalized.
	PathErrorKind
	// QueryErrorKind means the why engine could not load the inputs it
	// needed (e.g. a capability state file naming an unknown scope or
	// mode). A missing or unreadable capability file under --self is NOT
	// this kind: that case is an in-band not_sandboxed result instead of a
	// CLI error.
	QueryErrorKind
)

func (k ErrorKind) String() string {
	switch k {
	case UsageErrorKind:
		return "usage_error"
	case PathErrorKind:
		return "path_error"
	case QueryErrorKind:
		return "query_error"
	default:
		return "unknown"
	}
}

// CLIError wraps a CLI-layer failure with its kind and, for UsageError and
// PathError, the offending token (spec.md §7: "Surfaced to stderr with the
// offending token").
type CLIError struct {
	Kind  ErrorKind
	Token string
	Err   error
}

func (e *CLIError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Token, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *CLIError) Unwrap() error { return e.Err }

func usageErrorf(token, format string, args ...any) *CLIError {
	return &CLIError{Kind: UsageErrorKind, Token: token, Err: fmt.Errorf(format, args...)}
}

func pathError(token string, err error) *CLIError {
	return &CLIError{Kind: PathErrorKind, Token: token, Err: err}
}
