// Package tree assembles a flat label->Node map into the two-rooted
// package forest (§4.5), grounded on
// original_source/src/buildcleaner/graph.py's PackageTreeBuilder.
package tree

import (
	"github.com/ritzau/buildgraph/pkg/label"
	"github.com/ritzau/buildgraph/pkg/model"
)

// Build places every node in nodes under its owning package, creating
// Repository and Package containers on demand (set-default semantics).
// Nodes whose label is external are placed under the external root and
// never expanded further than their own container entry.
func Build(nodes map[string]model.Node) (*model.Forest, error) {
	forest := model.NewForest()
	for lbl, n := range nodes {
		if err := place(forest, lbl, n); err != nil {
			return nil, err
		}
	}
	return forest, nil
}

func place(forest *model.Forest, lbl string, n model.Node) error {
	external, repo, path, err := label.ParseContainer(containerLabelOf(lbl))
	if err != nil {
		return err
	}

	root := forest.Internal
	if external {
		root = forest.External
	}

	repoLabel := label.FormatContainer(external, repo, "")
	repoNode := root.GetOrCreateRepository(repoLabel, repo)

	pkgLabel := label.FormatContainer(external, repo, path)
	pkg := repoNode.GetOrCreatePackage(pkgLabel, path)

	return pkg.Insert(n)
}

// containerLabelOf returns the owning package's container label for a
// node label, which may itself already be a container label (repository
// or package, with no ":name") or a full target/file label.
func containerLabelOf(lbl string) string {
	// A target/file label always contains ":"; a bare container label
	// (used only internally, never as a map key here) would not.
	l, err := label.Parse(lbl)
	if err != nil {
		// Not a target-shaped label; treat as already a container label.
		return lbl
	}
	return l.ContainerLabel()
}
