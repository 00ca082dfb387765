package main

import (
	"bytes"
	"testing"

	"github.com/jacobsgrj/nono/capability"
)

func TestRenderDryRunOrdersGrantsAndPrintsNetwork(t *testing.T) {
	t.Parallel()

	set := capability.NewSet()
	set.Insert("/zzz", capability.Tree, capability.Read)
	set.Insert("/aaa", capability.File, capability.Write)
	set.SetNetwork(capability.Blocked)

	var buf bytes.Buffer
	renderDryRun(&buf, set)

	want := "[-w] /aaa\n[r-] /zzz\n[net] blocked\n"
	if buf.String() != want {
		t.Errorf("renderDryRun() = %q, want %q", buf.String(), want)
	}
}
