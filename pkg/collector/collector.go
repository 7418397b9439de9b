// Package collector drives the external query tool in iterations until
// the stub closure is empty or only points to excluded packages (§4.4),
// grounded on original_source/src/runner.py's TargetsCollector.collect_targets.
package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ritzau/buildgraph/pkg/bazelrunner"
	"github.com/ritzau/buildgraph/pkg/catalog"
	"github.com/ritzau/buildgraph/pkg/label"
	"github.com/ritzau/buildgraph/pkg/logging"
	"github.com/ritzau/buildgraph/pkg/model"
	"github.com/ritzau/buildgraph/pkg/query"
)

// UnresolvedTargetsError reports stub labels that remain unresolved and
// are neither external nor under an excluded prefix, together with the
// targets that reference each one.
type UnresolvedTargetsError struct {
	Referrers map[string][]string // stub label -> referring target labels
}

func (e *UnresolvedTargetsError) Error() string {
	labels := make([]string, 0, len(e.Referrers))
	for l := range e.Referrers {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return fmt.Sprintf("unresolved targets: %s", strings.Join(labels, ", "))
}

// Collector drives a bazelrunner.Runner through the build/label_kind
// query-and-resolve iteration.
type Collector struct {
	Runner     *bazelrunner.Runner
	Catalog    *catalog.Catalog
	PrefixPath string
}

// Collect runs the algorithm of §4.4 to completion, returning the fully
// resolved label->Node map (every non-external, non-excluded stub has
// been replaced by a real node).
func (c *Collector) Collect(ctx context.Context, seedTargets, excludedTargets []string, bazelConfig string) (map[string]model.Node, error) {
	allNodes := map[string]model.Node{}
	sourceNodes := map[string]*model.FileNode{}

	unresolved := append([]string{}, seedTargets...)
	excluded := append([]string{}, excludedTargets...)
	excludedPrefixes := prefixesOf(excluded)

	for len(unresolved) > 0 {
		logging.Debug("collector iteration", "targets", len(unresolved))

		buildText, err := c.Runner.QueryDeps(ctx, unresolved, bazelrunner.FormatBuild, excluded)
		if err != nil {
			return nil, fmt.Errorf("collector: build query: %w", err)
		}
		labelKindText, err := c.Runner.QueryDeps(ctx, unresolved, bazelrunner.FormatLabelKind, excluded)
		if err != nil {
			return nil, fmt.Errorf("collector: label_kind query: %w", err)
		}

		buildRes, err := query.ParseBuildOutput(buildText, c.Catalog, c.PrefixPath)
		if err != nil {
			return nil, err
		}
		lkRes := query.ParseLabelKindOutput(labelKindText, c.Catalog)

		for lbl, n := range lkRes.Nodes {
			if fn, ok := n.(*model.FileNode); ok {
				sourceNodes[lbl] = fn
				continue
			}
			if _, exists := allNodes[lbl]; !exists {
				allNodes[lbl] = n
			}
		}
		for lbl, n := range buildRes.Nodes {
			allNodes[lbl] = n
		}

		resolveStubs(allNodes, sourceNodes)

		legit, referrers := classifyRemainingStubs(allNodes, excludedPrefixes)
		if len(referrers) > 0 {
			return nil, &UnresolvedTargetsError{Referrers: referrers}
		}

		unresolved = legit
		// After the first iteration, un-exclude: the transitively needed
		// subset of previously-excluded packages must now be queried.
		excluded = nil
		excludedPrefixes = nil
	}

	return allNodes, nil
}

func prefixesOf(targets []string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if idx := strings.LastIndex(t, ":"); idx >= 0 {
			out = append(out, t[:idx])
		} else {
			out = append(out, t)
		}
	}
	return out
}

// resolveStubs replaces every stub Node reachable via a target's
// label-typed attributes with the real node from allNodes, or a newly
// materialized FileNode from sourceNodes.
func resolveStubs(allNodes map[string]model.Node, sourceNodes map[string]*model.FileNode) {
	for _, n := range allNodes {
		t, ok := n.(*model.TargetNode)
		if !ok {
			continue
		}
		for attr, refs := range t.LabelListArgs {
			for i, ref := range refs {
				if real := tryResolve(ref, allNodes, sourceNodes); real != nil {
					refs[i] = real
				}
			}
			t.LabelListArgs[attr] = refs
		}
		for attr, ref := range t.LabelArgs {
			if real := tryResolve(ref, allNodes, sourceNodes); real != nil {
				t.LabelArgs[attr] = real
			}
		}
	}
}

func tryResolve(ref model.Node, allNodes map[string]model.Node, sourceNodes map[string]*model.FileNode) model.Node {
	stub, ok := ref.(*model.TargetNode)
	if !ok || !stub.IsStub() {
		return nil
	}
	if real, ok := allNodes[stub.Label]; ok && real != model.Node(stub) {
		return real
	}
	if fn, ok := sourceNodes[stub.Label]; ok {
		allNodes[stub.Label] = fn
		return fn
	}
	return nil
}

// classifyRemainingStubs scans allNodes for still-unresolved, non-external
// stubs. Those whose package falls under an excluded prefix (exact match
// counts as inside it, per §9's decision) become the next iteration's
// unresolved set; anything else is an alien target, fatal when any exist.
func classifyRemainingStubs(allNodes map[string]model.Node, excludedPrefixes []string) (legit []string, alienReferrers map[string][]string) {
	seenLegit := map[string]bool{}
	alienReferrers = map[string][]string{}

	for referrerLabel, n := range allNodes {
		t, ok := n.(*model.TargetNode)
		if !ok {
			continue
		}
		visit := func(ref model.Node) {
			stub, ok := ref.(*model.TargetNode)
			if !ok || !stub.IsStub() {
				return
			}
			if isExcluded(stub.Label, excludedPrefixes) {
				if !seenLegit[stub.Label] {
					seenLegit[stub.Label] = true
					legit = append(legit, stub.Label)
				}
				return
			}
			alienReferrers[stub.Label] = append(alienReferrers[stub.Label], referrerLabel)
		}
		for _, refs := range t.LabelListArgs {
			for _, ref := range refs {
				visit(ref)
			}
		}
		for _, ref := range t.LabelArgs {
			visit(ref)
		}
	}
	return legit, alienReferrers
}

func isExcluded(stubLabel string, excludedPrefixes []string) bool {
	stubPkg := packageOf(stubLabel)
	for _, prefix := range excludedPrefixes {
		if !strings.HasPrefix(stubPkg, prefix) {
			continue
		}
		rest := stubPkg[len(prefix):]
		if rest == "" {
			// Exact match: treat as inside the excluded set (§9 decision,
			// avoids indexing one past the prefix).
			return true
		}
		if rest[0] == ':' || rest[0] == '/' {
			return true
		}
	}
	return false
}

func packageOf(fullLabel string) string {
	l, err := label.Parse(fullLabel)
	if err != nil {
		return fullLabel
	}
	return l.ContainerLabel()
}
