package transform

import (
	"sort"
	"strings"

	"github.com/ritzau/buildgraph/pkg/model"
)

// MergeSpec names a root to fold and the prefix for the target it produces.
type MergeSpec struct {
	RootLabel        string
	NewTargetsPrefix string
}

// mergedAccum is the deduplicated union collected by a BFS frontier walk
// over a cc_library/cc_shared_library's deps (and roots, for shared
// libraries), per §4.8.D.
type mergedAccum struct {
	hdrs, srcs, deps, textualHdrs []model.Node
	seenLabel                     map[string]bool
	copts, linkopts, features     []string
	includes                      []string
	stripIncludePrefix            []string
	seenString                    map[string]bool
}

func newAccum() *mergedAccum {
	return &mergedAccum{seenLabel: map[string]bool{}, seenString: map[string]bool{}}
}

func (a *mergedAccum) addLabel(bucket *[]model.Node, n model.Node) {
	if a.seenLabel[n.NodeLabel()] {
		return
	}
	a.seenLabel[n.NodeLabel()] = true
	*bucket = append(*bucket, n)
}

func (a *mergedAccum) addString(bucket *[]string, key, v string) {
	k := key + "\x00" + v
	if a.seenString[k] {
		return
	}
	a.seenString[k] = true
	*bucket = append(*bucket, v)
}

// CcLibraryDeepMerge implements §4.8.D for every spec in specs, selecting
// the cc_library or cc_shared_library merge variant by the root target's
// own kind. resolveLabel looks up a node by label within the forest the
// returned Transformer will later run against.
func CcLibraryDeepMerge(specs []MergeSpec, resolveLabel func(string) model.Node) Transformer {
	return func(forest *model.Forest) error {
		for _, spec := range specs {
			root := resolveLabel(spec.RootLabel)
			rootTarget, ok := root.(*model.TargetNode)
			if !ok {
				return &TransformError{Transformer: "CcLibraryDeepMerge", GroupKey: spec.RootLabel, MissingKind: "target"}
			}
			switch rootTarget.Kind {
			case "cc_shared_library":
				if err := mergeCcSharedLibrary(forest, rootTarget, spec); err != nil {
					return err
				}
			default:
				if err := mergeCcLibrary(forest, rootTarget, spec); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// walkFrontier runs the BFS over starting label-list values described in
// §4.8.D: alias targets are followed (AliasElision should already have run,
// but a defensive follow costs nothing), filegroups are transitively
// expanded and memoized, and non-cc_library targets are accumulated as
// source items when they are leaves (files, generated files, external, or
// carry strip_include_prefix) and otherwise traversed.
func walkFrontier(seeds []model.Node, acc *mergedAccum, filegroupCache map[string][]model.Node) {
	visited := map[string]bool{}
	queue := append([]model.Node{}, seeds...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n.NodeLabel()] {
			continue
		}
		visited[n.NodeLabel()] = true

		t, ok := n.(*model.TargetNode)
		if !ok {
			acc.addLabel(&acc.srcs, n)
			continue
		}
		if t.Kind == "alias" {
			if actual, ok := t.LabelArgs["actual"]; ok {
				queue = append(queue, actual)
			}
			continue
		}
		if t.Kind == "filegroup" {
			files, ok := filegroupCache[t.Label]
			if !ok {
				files = t.LabelListArgs["srcs"]
				filegroupCache[t.Label] = files
			}
			for _, f := range files {
				if fg, ok := f.(*model.TargetNode); ok && fg.Kind == "filegroup" {
					queue = append(queue, fg)
					continue
				}
				acc.addLabel(&acc.srcs, f)
			}
			continue
		}
		if t.Kind != "cc_library" {
			_, hasStripPrefix := t.StringArgs["strip_include_prefix"]
			if hasStripPrefix {
				acc.addLabel(&acc.srcs, n)
				continue
			}
			for _, d := range t.LabelListArgs["deps"] {
				queue = append(queue, d)
			}
			continue
		}

		for _, h := range t.LabelListArgs["hdrs"] {
			acc.addLabel(&acc.hdrs, h)
		}
		for _, s := range t.LabelListArgs["srcs"] {
			acc.addLabel(&acc.srcs, s)
		}
		for _, th := range t.LabelListArgs["textual_hdrs"] {
			acc.addLabel(&acc.textualHdrs, th)
		}
		for _, d := range t.LabelListArgs["deps"] {
			acc.addLabel(&acc.deps, d)
			queue = append(queue, d)
		}
		for _, c := range t.StringListArgs["copts"] {
			acc.addString(&acc.copts, "copts", c)
		}
		for _, l := range t.StringListArgs["linkopts"] {
			acc.addString(&acc.linkopts, "linkopts", l)
		}
		for _, f := range t.StringListArgs["features"] {
			acc.addString(&acc.features, "features", f)
		}
		for _, i := range t.StringListArgs["includes"] {
			acc.addString(&acc.includes, "includes", i)
		}
		if p, ok := t.StringArgs["strip_include_prefix"]; ok {
			acc.addString(&acc.stripIncludePrefix, "strip_include_prefix", p)
		}
	}
}

// canonicalize applies §4.8.D's exclusion and copt-rewrite rules in place.
func canonicalize(acc *mergedAccum) {
	hdrLabels := map[string]bool{}
	for _, h := range acc.hdrs {
		hdrLabels[h.NodeLabel()] = true
	}
	var srcs []model.Node
	for _, s := range acc.srcs {
		if hdrLabels[s.NodeLabel()] {
			continue
		}
		srcs = append(srcs, s)
	}
	acc.srcs = srcs

	var remainingTextual []model.Node
	for _, th := range acc.textualHdrs {
		if strings.HasSuffix(th.NodeLabel(), ".md") {
			remainingTextual = append(remainingTextual, th)
			continue
		}
		acc.hdrs = append(acc.hdrs, th)
	}
	acc.textualHdrs = remainingTextual

	hasException, hasNoException := false, false
	for _, c := range acc.copts {
		switch c {
		case "-fexceptions":
			hasException = true
		case "-fno-exceptions":
			hasNoException = true
		}
	}
	var copts []string
	for _, c := range acc.copts {
		if hasException && hasNoException && c == "-fno-exceptions" {
			continue
		}
		if c == "-O3" {
			c = "-O2"
		}
		copts = append(copts, c)
	}
	acc.copts = copts

	sortLabels(acc.hdrs)
	sortLabels(acc.srcs)
	sortLabels(acc.deps)
	sortLabels(acc.textualHdrs)
}

func sortLabels(nodes []model.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].NodeLabel() < nodes[j].NodeLabel() })
}

func packageOfLabel(lbl string) string {
	if idx := strings.Index(lbl, ":"); idx >= 0 {
		return lbl[:idx]
	}
	return lbl
}

func mergeCcLibrary(forest *model.Forest, root *model.TargetNode, spec MergeSpec) error {
	acc := newAccum()
	walkFrontier(root.LabelListArgs["deps"], acc, map[string][]model.Node{})
	for _, h := range root.LabelListArgs["hdrs"] {
		acc.addLabel(&acc.hdrs, h)
	}
	for _, s := range root.LabelListArgs["srcs"] {
		acc.addLabel(&acc.srcs, s)
	}
	canonicalize(acc)

	pkgLabel := packageOfLabel(root.Label)
	name := spec.NewTargetsPrefix + root.Name
	newLabel := pkgLabel + ":" + name
	merged := model.NewTarget(newLabel, "cc_library", name)
	merged.LabelListArgs["hdrs"] = acc.hdrs
	merged.LabelListArgs["srcs"] = acc.srcs
	merged.LabelListArgs["deps"] = acc.deps
	merged.LabelListArgs["textual_hdrs"] = acc.textualHdrs
	merged.StringListArgs["copts"] = acc.copts
	merged.StringListArgs["linkopts"] = acc.linkopts
	merged.StringListArgs["features"] = acc.features
	merged.StringListArgs["includes"] = acc.includes
	merged.StringListArgs["strip_include_prefix"] = acc.stripIncludePrefix

	repo := forest.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage(pkgLabel, strings.TrimPrefix(pkgLabel, "//"))
	return pkg.Insert(merged)
}

func mergeCcSharedLibrary(forest *model.Forest, root *model.TargetNode, spec MergeSpec) error {
	acc := newAccum()
	walkFrontier(root.LabelListArgs["roots"], acc, map[string][]model.Node{})
	canonicalize(acc)

	pkgLabel := packageOfLabel(root.Label)
	internalName := spec.NewTargetsPrefix + root.Name + "_internal"
	internalLabel := pkgLabel + ":" + internalName
	internal := model.NewTarget(internalLabel, "cc_library", internalName)
	internal.LabelListArgs["hdrs"] = acc.hdrs
	internal.LabelListArgs["srcs"] = acc.srcs
	internal.LabelListArgs["deps"] = acc.deps
	internal.LabelListArgs["textual_hdrs"] = acc.textualHdrs
	internal.StringListArgs["copts"] = acc.copts
	internal.StringListArgs["linkopts"] = acc.linkopts
	internal.StringListArgs["features"] = acc.features
	internal.StringListArgs["includes"] = acc.includes

	sharedName := spec.NewTargetsPrefix + root.Name
	sharedLabel := pkgLabel + ":" + sharedName
	shared := root.Clone()
	shared.Label = sharedLabel
	shared.Name = sharedName
	shared.LabelListArgs["roots"] = []model.Node{internal}
	if libName, ok := shared.StringArgs["shared_lib_name"]; ok {
		shared.StringArgs["shared_lib_name"] = spec.NewTargetsPrefix + libName
	}

	repo := forest.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage(pkgLabel, strings.TrimPrefix(pkgLabel, "//"))
	if err := pkg.Insert(internal); err != nil {
		return err
	}
	if err := pkg.Insert(shared); err != nil {
		return err
	}

	replaceReferences(forest, root.Label, shared)
	return nil
}

// replaceReferences rewrites every label-typed attribute across the whole
// forest that pointed at oldLabel to point at replacement instead, used by
// the cc_shared_library variant's global rename.
func replaceReferences(forest *model.Forest, oldLabel string, replacement model.Node) {
	for _, pkg := range forest.AllPackages() {
		for _, n := range pkg.Targets {
			t, ok := n.(*model.TargetNode)
			if !ok {
				continue
			}
			for attr, refs := range t.LabelListArgs {
				for i, r := range refs {
					if r.NodeLabel() == oldLabel {
						refs[i] = replacement
					}
				}
				t.LabelListArgs[attr] = refs
			}
			for attr, r := range t.LabelArgs {
				if r != nil && r.NodeLabel() == oldLabel {
					t.LabelArgs[attr] = replacement
				}
			}
		}
	}
}
