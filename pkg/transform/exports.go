package transform

import (
	"sort"

	"github.com/ritzau/buildgraph/pkg/model"
)

type fileOwner struct {
	pkg  *model.Package
	file *model.FileNode
}

// ExportSynthesis implements §4.8.E: walk the tree collecting
// file_label -> set(referring packages) whenever a file is referenced
// from a package other than its own, then append one exports_files(...)
// Function per package that owns files referenced cross-package.
func ExportSynthesis(forest *model.Forest) error {
	referencedFrom := map[string]map[string]bool{}
	owners := map[string]fileOwner{}

	for _, pkg := range forest.AllPackages() {
		for _, n := range pkg.Targets {
			t, ok := n.(*model.TargetNode)
			if !ok {
				continue
			}
			for _, refs := range t.LabelListArgs {
				for _, r := range refs {
					recordFileRef(forest, r, pkg.Label, referencedFrom, owners)
				}
			}
			for _, r := range t.LabelArgs {
				if r != nil {
					recordFileRef(forest, r, pkg.Label, referencedFrom, owners)
				}
			}
		}
	}

	byPackage := map[string][]string{}
	for lbl, referrers := range referencedFrom {
		own, ok := owners[lbl]
		if !ok || own.pkg == nil {
			continue
		}
		crossPackage := false
		for referrer := range referrers {
			if referrer != own.pkg.Label {
				crossPackage = true
				break
			}
		}
		if crossPackage {
			byPackage[own.pkg.Label] = append(byPackage[own.pkg.Label], own.file.Name)
		}
	}

	for _, pkg := range forest.AllPackages() {
		names := byPackage[pkg.Label]
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		pkg.Functions = append(pkg.Functions, &model.Function{
			Kind:           "exports_files",
			StringListArgs: map[string][]string{"srcs": names},
			LabelListArgs:  map[string][]model.Node{},
		})
	}

	return nil
}

func recordFileRef(forest *model.Forest, r model.Node, fromPackage string, referencedFrom map[string]map[string]bool, owners map[string]fileOwner) {
	f, ok := r.(*model.FileNode)
	if !ok {
		return
	}
	if _, ok := owners[f.Label]; !ok {
		owners[f.Label] = fileOwner{pkg: packageOwning(forest, f.Label), file: f}
	}
	if referencedFrom[f.Label] == nil {
		referencedFrom[f.Label] = map[string]bool{}
	}
	referencedFrom[f.Label][fromPackage] = true
}

func packageOwning(forest *model.Forest, label string) *model.Package {
	pkgLabel := packageOfLabel(label)
	for _, pkg := range forest.AllPackages() {
		if pkg.Label == pkgLabel {
			return pkg
		}
	}
	return nil
}
