package dag

// PackageGraph projects the target-level DAG onto package labels,
// dropping reflexive (intra-package) edges, matching
// original_source/src/buildcleaner/graph.go's DgPkgBuilder.
type PackageGraph struct {
	Out map[string][]string
	In  map[string][]string
}

// BuildPackageGraph derives a package-level view of d by mapping every
// target edge to its containing package's label via packageOf.
func BuildPackageGraph(d *DAG, packageOf func(targetLabel string) string) *PackageGraph {
	pg := &PackageGraph{Out: map[string][]string{}, In: map[string][]string{}}
	seen := map[string]bool{}
	for from, outs := range d.Out {
		fromPkg := packageOf(from)
		for _, to := range outs {
			toPkg := packageOf(to)
			if fromPkg == toPkg {
				continue
			}
			key := fromPkg + "->" + toPkg
			if seen[key] {
				continue
			}
			seen[key] = true
			pg.Out[fromPkg] = append(pg.Out[fromPkg], toPkg)
			pg.In[toPkg] = append(pg.In[toPkg], fromPkg)
		}
	}
	return pg
}
