package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRunWhyNotSandboxedWithoutCapFile(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := RunWhy(&stdout, &stderr, []string{"--self", "--path", "/etc/hosts"}, map[string]string{"HOME": t.TempDir()})

	if code != 0 {
		t.Fatalf("exit code = %d, want 0, stderr=%s", code, stderr.String())
	}

	if !bytes.Contains(stdout.Bytes(), []byte("not sandboxed")) {
		t.Errorf("stdout = %q, want not sandboxed", stdout.String())
	}
}

func TestRunWhyNotSandboxedJSON(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := RunWhy(&stdout, &stderr, []string{"--self", "--path", "/etc/hosts", "--json"}, map[string]string{"HOME": t.TempDir()})

	if code != 0 {
		t.Fatalf("exit code = %d, want 0, stderr=%s", code, stderr.String())
	}

	want := `{"status":"not_sandboxed"}` + "\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunWhySensitivePathDeniedJSON(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	sshDir := filepath.Join(home, ".ssh")

	if err := os.MkdirAll(sshDir, 0o700); err != nil {
		t.Fatal(err)
	}

	keyFile := filepath.Join(sshDir, "id_rsa")
	if err := os.WriteFile(keyFile, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer

	args := []string{"--path", keyFile, "--op", "read", "--json"}
	code := RunWhy(&stdout, &stderr, args, map[string]string{"HOME": home, "PWD": home})

	if code != 0 {
		t.Fatalf("exit code = %d, want 0, stderr=%s", code, stderr.String())
	}

	want := `{"category":"ssh keys","reason":"sensitive_path","status":"denied","suggestion":"--read ` + sshDir + `"}` + "\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunWhyExplicitGrantAllowsSensitivePath(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	sshDir := filepath.Join(home, ".ssh")

	if err := os.MkdirAll(sshDir, 0o700); err != nil {
		t.Fatal(err)
	}

	keyFile := filepath.Join(sshDir, "id_rsa")
	if err := os.WriteFile(keyFile, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer

	args := []string{"--allow", sshDir, "--path", keyFile, "--op", "read", "--json"}
	code := RunWhy(&stdout, &stderr, args, map[string]string{"HOME": home, "PWD": home})

	if code != 0 {
		t.Fatalf("exit code = %d, want 0, stderr=%s", code, stderr.String())
	}

	want := `{"reason":"explicit_grant","status":"allowed"}` + "\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunWhyNetworkBlockedSuggestsRemovingFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	args := []string{"--net-block", "--host", "example.com", "--port", "443", "--json"}
	code := RunWhy(&stdout, &stderr, args, map[string]string{"HOME": t.TempDir(), "PWD": t.TempDir()})

	if code != 0 {
		t.Fatalf("exit code = %d, want 0, stderr=%s", code, stderr.String())
	}

	want := `{"reason":"network_blocked","status":"denied","suggestion":"remove --net-block flag"}` + "\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunWhyProfileFlagIsRejected(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := RunWhy(&stdout, &stderr, []string{"--profile", "default", "--path", "/etc/hosts"}, map[string]string{"HOME": t.TempDir()})

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	if !bytes.Contains(stderr.Bytes(), []byte("profile resolution is not implemented")) {
		t.Errorf("stderr = %q, want profile rejection message", stderr.String())
	}
}

func TestRunWhyRequiresPathOrHost(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := RunWhy(&stdout, &stderr, nil, map[string]string{"HOME": t.TempDir()})

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	if !bytes.Contains(stderr.Bytes(), []byte("must specify --path or --host")) {
		t.Errorf("stderr = %q, want usage error", stderr.String())
	}
}
