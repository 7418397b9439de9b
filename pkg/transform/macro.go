package transform

import (
	"strings"

	"github.com/ritzau/buildgraph/pkg/model"
)

// Reducer synthesizes one public macro target from a group of private
// rules sharing a (generator_function, generator_name) pair, returning the
// replacement target. The caller deletes every group member afterward.
type Reducer func(pkg *model.Package, group []*model.TargetNode) (*model.TargetNode, error)

var reducers = map[string]Reducer{
	"build_test":             reduceBuildTest,
	"pkg_tar":                reducePkgTar,
	"cc_header_only_library": reduceCcHeaderOnlyLibrary,
	"generate_cc":            reduceGenerateCc,
	"transitive_hdrs":        reduceTransitiveHdrs,
}

// RegisterReducer adds or overrides the reducer for a generator-function
// name. Domain overlays use this to extend the base set without touching
// MacroCollapse itself.
func RegisterReducer(generatorFunction string, r Reducer) {
	reducers[generatorFunction] = r
}

type macroGroup struct {
	generatorFunction string
	generatorName     string
	members           []*model.TargetNode
}

// MacroCollapse implements §4.8.B: group each package's children by
// (generator_function, generator_name), and for every group whose
// generator_function has a registered reducer, replace the group with the
// reducer's synthesized target. A group with no registered reducer is left
// intact, per spec.
func MacroCollapse(forest *model.Forest) error {
	for _, pkg := range forest.AllPackages() {
		groups := map[string]*macroGroup{}
		var order []string
		for _, n := range pkg.Targets {
			t, ok := n.(*model.TargetNode)
			if !ok || t.GeneratorFunction == "" {
				continue
			}
			key := t.GeneratorFunction + "\x00" + t.GeneratorName
			g, ok := groups[key]
			if !ok {
				g = &macroGroup{generatorFunction: t.GeneratorFunction, generatorName: t.GeneratorName}
				groups[key] = g
				order = append(order, key)
			}
			g.members = append(g.members, t)
		}

		for _, key := range order {
			g := groups[key]
			reducer, ok := reducers[g.generatorFunction]
			if !ok {
				continue
			}
			merged, err := reducer(pkg, g.members)
			if err != nil {
				return err
			}
			for _, m := range g.members {
				delete(pkg.Targets, m.Label)
			}
			if merged != nil {
				merged.GeneratorFunction = g.generatorFunction
				merged.GeneratorName = g.generatorName
				pkg.Targets[merged.Label] = merged
			}
		}
	}
	return nil
}

func reduceBuildTest(pkg *model.Package, group []*model.TargetNode) (*model.TargetNode, error) {
	var empty *model.TargetNode
	var genrules []*model.TargetNode
	for _, t := range group {
		switch t.Kind {
		case "_empty_test":
			empty = t
		case "genrule":
			genrules = append(genrules, t)
		}
	}
	if empty == nil {
		return nil, &TransformError{Transformer: "build_test", Package: pkg.Label, MissingKind: "_empty_test"}
	}

	merged := model.NewTarget(empty.Label, "build_test", empty.Name)
	var targets []model.Node
	for _, g := range genrules {
		targets = append(targets, g.LabelListArgs["srcs"]...)
	}
	merged.LabelListArgs["targets"] = targets
	return merged, nil
}

func reducePkgTar(pkg *model.Package, group []*model.TargetNode) (*model.TargetNode, error) {
	var impl *model.TargetNode
	for _, t := range group {
		if t.Kind == "pkg_tar_impl" {
			impl = t
		}
	}
	if impl == nil {
		return nil, &TransformError{Transformer: "pkg_tar", Package: pkg.Label, MissingKind: "pkg_tar_impl"}
	}
	merged := impl.Clone()
	merged.Kind = "pkg_tar"
	delete(merged.LabelArgs, "private_stamp_detect")
	delete(merged.LabelListArgs, "private_stamp_detect")
	delete(merged.BoolArgs, "private_stamp_detect")
	return merged, nil
}

// reduceTransitiveHdrs handles a bare _transitive_hdrs gatherer used on its
// own, outside the three-way cc_header_only_library merge in
// mergeHeaderOnlyGroup (§4.8.C): it is just renamed to the public
// transitive_hdrs macro with its deps untouched.
func reduceTransitiveHdrs(pkg *model.Package, group []*model.TargetNode) (*model.TargetNode, error) {
	var priv *model.TargetNode
	for _, t := range group {
		if t.Kind == "_transitive_hdrs" {
			priv = t
		}
	}
	if priv == nil {
		return nil, &TransformError{Transformer: "transitive_hdrs", Package: pkg.Label, MissingKind: "_transitive_hdrs"}
	}
	merged := priv.Clone()
	merged.Kind = "transitive_hdrs"
	return merged, nil
}

func reduceCcHeaderOnlyLibrary(pkg *model.Package, group []*model.TargetNode) (*model.TargetNode, error) {
	var gather *model.TargetNode
	for _, t := range group {
		if t.Kind == "_transitive_hdrs" {
			gather = t
		}
	}
	if gather == nil {
		return nil, &TransformError{Transformer: "cc_header_only_library", Package: pkg.Label, MissingKind: "_transitive_hdrs"}
	}
	baseName := strings.TrimSuffix(gather.Name, "_gather")
	merged, _, err := mergeHeaderOnlyGroup(pkg, baseName, gather)
	return merged, err
}

// reduceGenerateCc hoists well_known_protos from label-arg presence to a
// bool attribute. The source sets it true and immediately deletes it
// again (§9 open question); the observable net effect is always false,
// which is what this reducer reproduces rather than the apparently
// intended true-when-plugin-present behavior.
func reduceGenerateCc(pkg *model.Package, group []*model.TargetNode) (*model.TargetNode, error) {
	var src *model.TargetNode
	for _, t := range group {
		if t.Kind == "_generate_cc" {
			src = t
		}
	}
	if src == nil {
		return nil, &TransformError{Transformer: "generate_cc", Package: pkg.Label, MissingKind: "_generate_cc"}
	}
	merged := src.Clone()
	merged.Kind = "generate_cc"
	merged.BoolArgs["well_known_protos"] = false
	return merged, nil
}
