package main

import (
	"encoding/json"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/jacobsgrj/nono/capability"
	"github.com/jacobsgrj/nono/query"
)

// RunWhy implements the why subcommand (C7). It loads a capability set
// either from NONO_CAP_FILE (via --self) or assembles one from this
// invocation's own grant flags, then runs the query engine against a
// single probe and prints the result. See spec.md §4.7.
func RunWhy(stdout, stderr io.Writer, args []string, env map[string]string) int {
	flags := flag.NewFlagSet("nono why", flag.ContinueOnError)
	flags.Usage = func() {}
	flags.SetOutput(io.Discard)

	flagHelp := flags.BoolP("help", "h", false, "Show help")
	flagSelf := flags.Bool("self", false, "Load the capability set this process is running under")
	flagPath := flags.String("path", "", "Probe a filesystem path")
	flagOp := flags.String("op", "read", "Access mode for --path: read, write, or readwrite")
	flagHost := flags.String("host", "", "Probe a network destination")
	flagPort := flags.Int("port", 0, "Port for --host")
	flagWorkdir := flags.String("workdir", "", "Working directory for the hypothetical query")
	flagJSON := flags.Bool("json", false, "Emit the result as JSON")
	flagProfile := flags.String("profile", "", "Reserved: see spec.md §9")

	grants := registerGrantFlags(flags)

	if err := flags.Parse(args); err != nil {
		fprintError(stderr, "nono why", usageErrorf("", "%w", err))
		printWhyUsage(stderr)

		return 1
	}

	if *flagHelp {
		printWhyUsage(stdout)
		return 0
	}

	if *flagProfile != "" {
		fprintError(stderr, "nono why", usageErrorf("--profile", "profile resolution is not implemented by nono itself; expand %q into --read/--write/--allow flags before invoking", *flagProfile))
		return 1
	}

	if *flagPath == "" && *flagHost == "" {
		fprintError(stderr, "nono why", usageErrorf("", "must specify --path or --host"))
		return 1
	}

	op, err := capability.ParseMode(*flagOp)
	if err != nil {
		fprintError(stderr, "nono why", usageErrorf("--op", "%w", err))
		return 1
	}

	engine, err := buildEngine(*flagSelf, grants, *flagWorkdir, env)
	if err != nil {
		if _, ok := err.(*notSandboxedError); ok {
			return printResult(stdout, query.Result{Status: query.StatusNotSandboxed}, *flagJSON)
		}

		fprintError(stderr, "nono why", err)

		return 1
	}

	var probe query.Probe
	if *flagHost != "" {
		probe = query.Probe{Kind: query.ProbeNetwork, Host: *flagHost, Port: *flagPort}
	} else {
		probe = query.Probe{Kind: query.ProbePath, Path: *flagPath, Op: op}
	}

	result := engine.Evaluate(probe)

	return printResult(stdout, result, *flagJSON)
}

// notSandboxedError marks the --self cases where NONO_CAP_FILE is unset or
// its file is missing or unreadable; RunWhy answers them with an in-band
// not_sandboxed result rather than a CLI exit error.
type notSandboxedError struct{}

func (*notSandboxedError) Error() string { return "not sandboxed" }

// buildEngine assembles the query.Engine either from the capability state
// file (--self) or from this invocation's own flags (hypothetical query).
func buildEngine(self bool, grants *grantFlags, workdirFlag string, env map[string]string) (*query.Engine, error) {
	home := env["HOME"]

	cwd := workdirFlag
	if cwd == "" {
		cwd = env["PWD"]
	}

	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		}
	}

	if self {
		capFile := env[capability.EnvCapFile]
		if capFile == "" {
			return nil, &notSandboxedError{}
		}

		state, err := capability.ReadStateFile(capFile)
		if err != nil {
			return nil, &notSandboxedError{}
		}

		set := capability.NewSet()

		for _, g := range state.Grants {
			scope, err := capability.ParseScope(g.Scope)
			if err != nil {
				return nil, &CLIError{Kind: QueryErrorKind, Err: err}
			}

			mode, err := capability.ParseMode(g.Mode)
			if err != nil {
				return nil, &CLIError{Kind: QueryErrorKind, Err: err}
			}

			set.Insert(capability.Path(g.Path), scope, mode)
		}

		if state.Network == "blocked" {
			set.SetNetwork(capability.Blocked)
		}

		sensitive := make([]capability.SensitiveEntry, 0, len(state.Sensitive))
		for _, e := range state.Sensitive {
			sensitive = append(sensitive, capability.SensitiveEntry{Path: capability.Path(e.Path), Category: e.Category})
		}

		return &query.Engine{
			Set:       set,
			Sensitive: sensitive,
			Workdir:   capability.Path(state.Workdir),
			Home:      home,
			Cwd:       cwd,
		}, nil
	}

	workdir, err := capability.Canonicalize(cwd, home, cwd)
	if err != nil {
		return nil, pathError("workdir", err)
	}

	set, err := buildCapabilitySet(grants, Config{}, home, cwd, nil)
	if err != nil {
		return nil, err
	}

	return &query.Engine{
		Set:       set,
		Sensitive: capability.SensitiveRegistry(home),
		Workdir:   workdir,
		Home:      home,
		Cwd:       cwd,
	}, nil
}

// printResult renders a query.Result as JSON or as a short text line, per
// spec.md §6's "why --json output" contract (sorted keys, UTF-8, trailing
// newline) and §4.8-adjacent human formatting for the non-JSON case.
func printResult(w io.Writer, result query.Result, asJSON bool) int {
	if asJSON {
		data, err := json.Marshal(result)
		if err != nil {
			fprintf(w, "%v\n", err)
			return 1
		}

		fprintln(w, string(data))

		return 0
	}

	switch result.Status {
	case query.StatusNotSandboxed:
		fprintln(w, "not sandboxed")
	case query.StatusAllowed:
		fprintf(w, "allowed (%s)\n", result.Reason)
	case query.StatusDenied:
		if result.Category != "" {
			fprintf(w, "denied (%s: %s), try: %s\n", result.Reason, result.Category, result.Suggestion)
		} else {
			fprintf(w, "denied (%s), try: %s\n", result.Reason, result.Suggestion)
		}
	}

	return 0
}
