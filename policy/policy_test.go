package policy

import (
	"errors"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	t.Parallel()

	cases := map[ErrorKind]string{
		PolicyError:  "policy_error",
		InstallError: "install_error",
		ExecError:    "exec_error",
	}

	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", kind, got, want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &Error{Kind: InstallError, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find the wrapped cause")
	}
}
