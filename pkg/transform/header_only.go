package transform

import (
	"strings"

	"github.com/ritzau/buildgraph/pkg/model"
)

// HeaderOnlyMerge implements §4.8.C standalone: for each package holding a
// _transitive_hdrs target named "<X>_gather", locate the sibling
// _transitive_parameters_library and the cc_library X, and replace all
// three with one cc_header_only_library. Invocable directly or via the
// "cc_header_only_library" entry in the §4.8.B reducer registry.
func HeaderOnlyMerge(forest *model.Forest) error {
	for _, pkg := range forest.AllPackages() {
		var gathers []*model.TargetNode
		for _, n := range pkg.Targets {
			if t, ok := n.(*model.TargetNode); ok && t.Kind == "_transitive_hdrs" && strings.HasSuffix(t.Name, "_gather") {
				gathers = append(gathers, t)
			}
		}
		for _, gather := range gathers {
			baseName := strings.TrimSuffix(gather.Name, "_gather")
			merged, consumed, err := mergeHeaderOnlyGroup(pkg, baseName, gather)
			if err != nil {
				return err
			}
			for _, lbl := range consumed {
				delete(pkg.Targets, lbl)
			}
			pkg.Targets[merged.Label] = merged
		}
	}
	return nil
}

// mergeHeaderOnlyGroup locates the _transitive_parameters_library and
// cc_library siblings of gather and folds the three into one
// cc_header_only_library: deps from the transitive-hdrs gatherer,
// extra_deps as the cc_library's deps minus the parameters library, and
// the cc_library's other label-list, string-list, string and bool
// attributes preserved. The cc_library's hdrs are not carried over.
func mergeHeaderOnlyGroup(pkg *model.Package, baseName string, gather *model.TargetNode) (*model.TargetNode, []string, error) {
	paramsLabel := pkg.Label + ":" + baseName + "_params"
	libLabel := pkg.Label + ":" + baseName

	paramsNode, ok := pkg.Targets[paramsLabel].(*model.TargetNode)
	if !ok || paramsNode.Kind != "_transitive_parameters_library" {
		return nil, nil, &TransformError{Transformer: "HeaderOnlyMerge", Package: pkg.Label, GroupKey: baseName, MissingKind: "_transitive_parameters_library"}
	}
	libNode, ok := pkg.Targets[libLabel].(*model.TargetNode)
	if !ok || libNode.Kind != "cc_library" {
		return nil, nil, &TransformError{Transformer: "HeaderOnlyMerge", Package: pkg.Label, GroupKey: baseName, MissingKind: "cc_library"}
	}

	merged := model.NewTarget(libLabel, "cc_header_only_library", baseName)
	merged.LabelListArgs["deps"] = append([]model.Node{}, gather.LabelListArgs["deps"]...)
	merged.LabelListArgs["extra_deps"] = extraDepsMinusParams(libNode, paramsNode)

	for attr, v := range libNode.LabelListArgs {
		if attr == "hdrs" || attr == "deps" {
			continue
		}
		merged.LabelListArgs[attr] = append([]model.Node{}, v...)
	}
	for attr, v := range libNode.StringListArgs {
		if attr == "hdrs" {
			continue
		}
		merged.StringListArgs[attr] = append([]string{}, v...)
	}
	for attr, v := range libNode.StringArgs {
		merged.StringArgs[attr] = v
	}
	for attr, v := range libNode.BoolArgs {
		merged.BoolArgs[attr] = v
	}

	return merged, []string{gather.Label, paramsLabel, libLabel}, nil
}

func extraDepsMinusParams(lib, params *model.TargetNode) []model.Node {
	var out []model.Node
	for _, d := range lib.LabelListArgs["deps"] {
		if d.NodeLabel() == params.Label {
			continue
		}
		out = append(out, d)
	}
	return out
}
