package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ritzau/buildgraph/pkg/model"
)

// TreeOptions configures the debug tree printer's filtering: ShowFiles
// includes FileNode/GeneratedFileNode leaves, ShowTargets includes
// TargetNode entries (stubs always print, flagged, regardless).
type TreeOptions struct {
	ShowFiles   bool
	ShowTargets bool
}

// DebugTree renders a preorder dump of the forest: one line per
// repository, package, and (subject to options) child node, indented by
// nesting depth. Grounded on original_source/src/buildcleaner/printer.py's
// debug tree dump.
func DebugTree(forest *model.Forest, opts TreeOptions) string {
	var b strings.Builder
	for _, root := range []*model.Root{forest.Internal, forest.External} {
		name := "internal"
		if root.External {
			name = "external"
		}
		fmt.Fprintf(&b, "root: %s\n", name)
		writeRepositories(&b, root, opts)
	}
	return b.String()
}

func writeRepositories(b *strings.Builder, root *model.Root, opts TreeOptions) {
	repoLabels := make([]string, 0, len(root.Repositories))
	for lbl := range root.Repositories {
		repoLabels = append(repoLabels, lbl)
	}
	sort.Strings(repoLabels)

	for _, lbl := range repoLabels {
		repo := root.Repositories[lbl]
		fmt.Fprintf(b, "  repository: %s\n", repo.Label)
		writePackages(b, repo, opts)
	}
}

func writePackages(b *strings.Builder, repo *model.Repository, opts TreeOptions) {
	pkgLabels := make([]string, 0, len(repo.Packages))
	for lbl := range repo.Packages {
		pkgLabels = append(pkgLabels, lbl)
	}
	sort.Strings(pkgLabels)

	for _, lbl := range pkgLabels {
		pkg := repo.Packages[lbl]
		fmt.Fprintf(b, "    package: %s\n", pkg.Label)
		writeChildren(b, pkg, opts)
	}
}

func writeChildren(b *strings.Builder, pkg *model.Package, opts TreeOptions) {
	childLabels := make([]string, 0, len(pkg.Targets))
	for lbl := range pkg.Targets {
		childLabels = append(childLabels, lbl)
	}
	sort.Strings(childLabels)

	for _, lbl := range childLabels {
		n := pkg.Targets[lbl]
		switch t := n.(type) {
		case *model.TargetNode:
			if t.IsStub() {
				fmt.Fprintf(b, "      [stub] %s\n", lbl)
				continue
			}
			if opts.ShowTargets {
				fmt.Fprintf(b, "      %s %s\n", t.Kind, lbl)
			}
		case *model.FileNode:
			if opts.ShowFiles {
				fmt.Fprintf(b, "      file %s\n", lbl)
			}
		case *model.GeneratedFileNode:
			if opts.ShowFiles {
				fmt.Fprintf(b, "      generated %s (of %s)\n", lbl, t.Maternal.Label)
			}
		case *model.ExternalNode:
			fmt.Fprintf(b, "      external %s\n", lbl)
		}
	}

	for _, fn := range pkg.Functions {
		fmt.Fprintf(b, "      function %s\n", fn.Kind)
	}
}
