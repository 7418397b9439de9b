package transform

import (
	"strings"

	"github.com/ritzau/buildgraph/pkg/model"
)

const aliasKind = "alias"

// AliasElision implements §4.8.A: every label-typed attribute pointing at
// an alias target is rewritten to point at the non-alias target the alias
// chain resolves to; a genrule cmd string embedding the alias label text
// is textually rewritten to use the resolved label instead. Idempotent:
// running it again on an already-elided graph is a no-op (property 5).
func AliasElision(forest *model.Forest) error {
	aliasTargets := map[string]*model.TargetNode{}
	for _, pkg := range forest.AllPackages() {
		for _, n := range pkg.Targets {
			if t, ok := n.(*model.TargetNode); ok && t.Kind == aliasKind {
				aliasTargets[t.Label] = t
			}
		}
	}

	resolved := map[string]model.Node{}
	var resolve func(lbl string, seen map[string]bool) model.Node
	resolve = func(lbl string, seen map[string]bool) model.Node {
		if r, ok := resolved[lbl]; ok {
			return r
		}
		t, ok := aliasTargets[lbl]
		if !ok {
			return nil
		}
		if seen[lbl] {
			// Alias cycle; leave as-is, the DAG pass will flag it fatally.
			return t
		}
		seen[lbl] = true
		actual, ok := t.LabelArgs["actual"]
		if !ok {
			return t
		}
		if at, ok := actual.(*model.TargetNode); ok {
			if next := resolve(at.Label, seen); next != nil {
				resolved[lbl] = next
				return next
			}
		}
		resolved[lbl] = actual
		return actual
	}
	for lbl := range aliasTargets {
		resolve(lbl, map[string]bool{})
	}

	rewrite := func(n model.Node) model.Node {
		t, ok := n.(*model.TargetNode)
		if !ok || t.Kind != aliasKind {
			return n
		}
		if r, ok := resolved[t.Label]; ok && r != nil {
			return r
		}
		return n
	}

	for _, pkg := range forest.AllPackages() {
		for _, n := range pkg.Targets {
			t, ok := n.(*model.TargetNode)
			if !ok {
				continue
			}
			for attr, refs := range t.LabelListArgs {
				for i, r := range refs {
					refs[i] = rewrite(r)
				}
				t.LabelListArgs[attr] = refs
			}
			for attr, r := range t.LabelArgs {
				t.LabelArgs[attr] = rewrite(r)
			}
			if cmd, ok := t.StringArgs["cmd"]; ok {
				for aliasLbl, real := range resolved {
					if real == nil {
						continue
					}
					cmd = strings.ReplaceAll(cmd, aliasLbl, real.NodeLabel())
				}
				t.StringArgs["cmd"] = cmd
			}
		}
	}

	// Every elided alias moves to the terminal "aliased-away" state: its
	// references are gone, so the node itself is removed from the graph.
	for lbl, real := range resolved {
		if real == nil {
			continue
		}
		for _, pkg := range forest.AllPackages() {
			delete(pkg.Targets, lbl)
		}
	}

	return nil
}
