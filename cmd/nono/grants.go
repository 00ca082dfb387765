package main

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/jacobsgrj/nono/capability"
)

// grantFlags holds the repeatable path flags shared between the run and why
// subcommands (spec.md §6: the why subcommand takes "reusable grant flags
// for hypothetical queries"). Registering them once keeps both subcommands'
// flag tables and help text identical.
type grantFlags struct {
	allow     *[]string
	read      *[]string
	write     *[]string
	allowFile *[]string
	readFile  *[]string
	writeFile *[]string
	netBlock  *bool
}

// registerGrantFlags adds the --allow/--read/--write family and --net-block
// to fs.
func registerGrantFlags(fs *flag.FlagSet) *grantFlags {
	return &grantFlags{
		allow:     fs.StringArrayP("allow", "a", nil, "Tree grant, read-write (repeatable)"),
		read:      fs.StringArrayP("read", "r", nil, "Tree grant, read-only (repeatable)"),
		write:     fs.StringArrayP("write", "w", nil, "Tree grant, write-only (repeatable)"),
		allowFile: fs.StringArray("allow-file", nil, "File grant, read-write (repeatable)"),
		readFile:  fs.StringArray("read-file", nil, "File grant, read-only (repeatable)"),
		writeFile: fs.StringArray("write-file", nil, "File grant, write-only (repeatable)"),
		netBlock:  fs.Bool("net-block", false, "Block outbound network access"),
	}
}

// grantSource pairs one raw path string with the flag token it came from,
// purely so a canonicalization failure can report which flag (not just
// which path) was at fault.
type grantSource struct {
	flagName string
	path     string
	scope    capability.Scope
	mode     capability.Mode
}

// collect flattens a grantFlags (plus any config-file defaults merged ahead
// of it) into an ordered list of grantSource entries, in a deterministic
// config-then-flag order: config defaults first, then this invocation's own
// flags.
func (g *grantFlags) collect(cfg Config) []grantSource {
	var out []grantSource

	add := func(flagName string, paths []string, scope capability.Scope, mode capability.Mode) {
		for _, p := range paths {
			out = append(out, grantSource{flagName: flagName, path: p, scope: scope, mode: mode})
		}
	}

	add("--allow", cfg.Allow, capability.Tree, capability.ReadWrite)
	add("--read", cfg.Read, capability.Tree, capability.Read)
	add("--write", cfg.Write, capability.Tree, capability.Write)
	add("--allow-file", cfg.AllowFile, capability.File, capability.ReadWrite)
	add("--read-file", cfg.ReadFile, capability.File, capability.Read)
	add("--write-file", cfg.WriteFile, capability.File, capability.Write)

	add("--allow", *g.allow, capability.Tree, capability.ReadWrite)
	add("--read", *g.read, capability.Tree, capability.Read)
	add("--write", *g.write, capability.Tree, capability.Write)
	add("--allow-file", *g.allowFile, capability.File, capability.ReadWrite)
	add("--read-file", *g.readFile, capability.File, capability.Read)
	add("--write-file", *g.writeFile, capability.File, capability.Write)

	return out
}

// buildCapabilitySet canonicalizes every collected grant against home/cwd
// and inserts it into a fresh capability.Set, applying §3's join and
// dominance rules via Set.Insert. network is Blocked if either the config
// file or this invocation's --net-block asked for it.
func buildCapabilitySet(g *grantFlags, cfg Config, home, cwd string, debug *DebugLogger) (*capability.Set, error) {
	set := capability.NewSet()

	for _, src := range g.collect(cfg) {
		canonical, err := capability.Canonicalize(src.path, home, cwd)
		if err != nil {
			return nil, pathError(fmt.Sprintf("%s %s", src.flagName, src.path), err)
		}

		debug.Grant(src.flagName, src.path, canonical.String(), src.scope, src.mode)

		set.Insert(canonical, src.scope, src.mode)
	}

	if cfg.NetBlock || *g.netBlock {
		set.SetNetwork(capability.Blocked)
	}

	return set, nil
}
