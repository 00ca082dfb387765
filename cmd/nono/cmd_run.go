package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/jacobsgrj/nono/capability"
	"github.com/jacobsgrj/nono/policy"
)

// RunSandbox implements the default "run" subcommand: C1 (per path flag) →
// C3 (aggregation) → either C8 (dry-run) or C4 → C6 (persist) → C9
// (export) → C5 (apply+exec), per spec.md §2's control-flow diagram.
func RunSandbox(stdout, stderr io.Writer, args []string, env map[string]string) int {
	flags := flag.NewFlagSet("nono", flag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.Usage = func() {}
	flags.SetOutput(io.Discard)

	flagHelp := flags.BoolP("help", "h", false, "Show help")
	flagVersion := flags.Bool("version", false, "Show version and exit")
	verbose := flags.CountP("verbose", "v", "Increase debug verbosity (repeatable)")
	flagConfig := flags.StringP("config", "c", "", "Load default grants from a JSONC file")
	flagDryRun := flags.Bool("dry-run", false, "Print the capability table and exit")

	grants := registerGrantFlags(flags)

	if err := flags.Parse(args); err != nil {
		fprintError(stderr, "nono", usageErrorf("", "%w", err))
		printUsage(stderr)

		return 1
	}

	if *flagVersion {
		fprintln(stdout, formatVersion())
		return 0
	}

	commandAndArgs := flags.Args()

	if *flagHelp || len(commandAndArgs) == 0 {
		printUsage(stdout)
		return 0
	}

	debug := NewDebugLogger(stderr, *verbose)

	cfg, err := LoadConfig(*flagConfig)
	if err != nil {
		fprintError(stderr, "nono", err)
		return 1
	}

	cwd := env["PWD"]
	if cwd == "" {
		if wd, werr := os.Getwd(); werr == nil {
			cwd = wd
		}
	}

	home := env["HOME"]

	debug.Section("capabilities")

	set, err := buildCapabilitySet(grants, cfg, home, cwd, debug)
	if err != nil {
		fprintError(stderr, "nono", err)
		return 1
	}

	workdir, err := capability.Canonicalize(cwd, home, cwd)
	if err != nil {
		fprintError(stderr, "nono", pathError("workdir", err))
		return 1
	}

	debug.Logf("workdir: %s", workdir)
	debug.Logf("network: %s", set.Network())

	if *flagDryRun {
		renderDryRun(stdout, set)
		return 0
	}

	if err := policy.CheckPrerequisites(); err != nil {
		fprintError(stderr, "nono", &policy.Error{Kind: policy.InstallError, Err: err})
		return 1
	}

	sensitive := capability.SensitiveRegistry(home)

	// Reserve the capability state file's path before compiling the policy
	// and grant it Read: spec.md §4.6 requires the file be in the child's
	// allow set, but the file lives outside every grant the user supplied
	// and outside the fixed bootstrap set (which deliberately never
	// includes /tmp). Without this grant the child could not open
	// NONO_CAP_FILE under its own sandbox.
	stateFile, err := reserveStateFilePath()
	if err != nil {
		fprintError(stderr, "nono", err)
		return 1
	}

	set.Insert(capability.Path(stateFile), capability.File, capability.Read)

	debug.Section("policy")

	artifact, err := policy.Compile(set)
	if err != nil {
		_ = os.Remove(stateFile)
		fprintError(stderr, "nono", err)

		return 1
	}

	debug.Logf("backend: %s", artifact.Backend())

	if debug.Enabled() && debug.level >= 2 {
		debug.Bulletf("artifact:\n%s", indent(string(artifact.Bytes())))
	}

	if err := capability.NewState(set, workdir.String(), sensitive).WriteFile(stateFile); err != nil {
		_ = os.Remove(stateFile)
		fprintError(stderr, "nono", err)

		return 1
	}

	childPath, lookErr := exec.LookPath(commandAndArgs[0])
	if lookErr != nil {
		_ = os.Remove(stateFile)
		fprintError(stderr, "nono", &policy.Error{Kind: policy.ExecError, Err: fmt.Errorf("look up %q: %w", commandAndArgs[0], lookErr)})

		return 1
	}

	childEnv := mergeChildEnv(env, capability.ExportEnvironment(set, sensitive, stateFile))

	debug.Section("exec")
	debug.Logf("%s %s", childPath, strings.Join(commandAndArgs[1:], " "))

	installErr := policy.Install(artifact, policy.Child{
		Path: childPath,
		Argv: commandAndArgs,
		Env:  envToSlice(childEnv),
	})

	// Install only returns on failure: success replaces this process image.
	_ = os.Remove(stateFile)

	var polErr *policy.Error
	if errors.As(installErr, &polErr) {
		fprintError(stderr, "nono", polErr)
		return 1
	}

	fprintError(stderr, "nono", installErr)

	return 1
}

// reserveStateFilePath implements the "per-invocation path" half of C6: it
// claims a unique path for the capability state file before the file's
// content is known, so that path can be granted Read access ahead of
// policy compilation. os.CreateTemp creates the file with mode 0600;
// State.WriteFile supplies the actual content once the set is final.
func reserveStateFilePath() (string, error) {
	f, err := os.CreateTemp("", "nono-cap-*.json")
	if err != nil {
		return "", fmt.Errorf("nono: create capability state file: %w", err)
	}

	path := f.Name()
	_ = f.Close()

	return path, nil
}

// mergeChildEnv layers the C9 export variables (including NONO_CAP_FILE)
// on top of the parent's own environment, so PATH, TERM, etc. are
// preserved for the child.
func mergeChildEnv(parent map[string]string, exported map[string]string) map[string]string {
	out := make(map[string]string, len(parent)+len(exported))

	for k, v := range parent {
		out[k] = v
	}

	for k, v := range exported {
		out[k] = v
	}

	return out
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}

	return strings.Join(lines, "\n")
}
