package main

import "io"

const usageHelp = `nono - capability-scoped sandbox for semi-trusted child processes

Usage: nono [flags] -- <command> [args...]
       nono why [flags]

Flags:
  -h, --help               Show help
  -v, --verbose            Increase debug verbosity (repeatable)
      --version             Show version and exit
  -a, --allow <dir>         Tree grant, read-write (repeatable)
  -r, --read <dir>          Tree grant, read-only (repeatable)
  -w, --write <dir>         Tree grant, write-only (repeatable)
      --allow-file <file>   File grant, read-write (repeatable)
      --read-file <file>    File grant, read-only (repeatable)
      --write-file <file>   File grant, write-only (repeatable)
      --net-block           Block outbound network access
      --dry-run             Print the capability table and exit, without
                             installing a sandbox or running the command
  -c, --config <file>       Load default grants from a JSONC file
  --                         Separator; everything after it is the child
                             command

Subcommands:
  why    Explain an allow/deny decision for a hypothetical path or network
         probe, without running a command. See "nono why --help".

Examples:
  nono --allow /proj -- sh -c 'echo x > /proj/a'
  nono --allow /proj --net-block -- curl https://example.com
  nono --dry-run --allow /proj --read /etc -- anything
  nono why --self --path ~/.ssh/id_rsa --op read --json`

const usageWhyHelp = `nono why - replay an allow/deny decision without running a command

Usage: nono why --self [flags]
       nono why [grant flags] --path <path> --op <read|write|readwrite> [flags]
       nono why [grant flags] --host <host> --port <port> [flags]

Flags:
  -h, --help           Show help
      --self            Load the capability set this process is itself
                         running under, from NONO_CAP_FILE
      --path <path>     Probe a filesystem path
      --op <op>         Access mode for --path: read, write, or readwrite
                         (default: read)
      --host <host>     Probe a network destination
      --port <port>     Port for --host
      --workdir <dir>   Working directory for the hypothetical query
                         (default: current directory)
      --json            Emit the result as JSON instead of a text line
  -a, --allow <dir>     Tree grant, read-write (repeatable)
  -r, --read <dir>      Tree grant, read-only (repeatable)
  -w, --write <dir>     Tree grant, write-only (repeatable)
      --allow-file <file>  File grant, read-write (repeatable)
      --read-file <file>   File grant, read-only (repeatable)
      --write-file <file>  File grant, write-only (repeatable)
      --net-block       Hypothetical network policy is Blocked
      --profile <name>  Reserved: profile resolution is an external
                         collaborator's job (spec.md §9); nono itself does
                         not resolve profile names, expand the profile into
                         the grant flags above before invoking nono why.

Examples:
  nono why --self --path /home/u/.ssh/id_rsa --op read --json
  nono why --allow /proj --path /proj/a --op write`

func printUsage(w io.Writer) {
	fprintln(w, usageHelp)
}

func printWhyUsage(w io.Writer) {
	fprintln(w, usageWhyHelp)
}
