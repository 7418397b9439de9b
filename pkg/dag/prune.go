package dag

import "github.com/ritzau/buildgraph/pkg/model"

// Removable reports whether a target's kind may be deleted by pruning.
// Files, generated files, and containers are never removable; domain
// overlays extend this via protectedKinds.
type Removable func(kind string) bool

// DefaultRemovable marks every non-protected TargetNode kind as
// removable; protectedKinds lists domain-specific exceptions such as
// "bool_flag" (§4.6.3).
func DefaultRemovable(protectedKinds ...string) Removable {
	protected := map[string]bool{}
	for _, k := range protectedKinds {
		protected[k] = true
	}
	return func(kind string) bool {
		return !protected[kind]
	}
}

// PruneUnreachable walks from each artifact root accumulating the
// reachable set via the DAG's adjacency (the BFS-from-roots shape mirrors
// the teacher's pkg/lens/distance.go, adapted to walk TargetNode edges
// instead of a web-view GraphData mirror), then deletes every removable
// node in the forest that was not reached, along with its declared
// outputs.
func PruneUnreachable(forest *model.Forest, d *DAG, artifactRoots []string, removable Removable) {
	visited := bfsReachable(d, artifactRoots)

	for _, pkg := range forest.AllPackages() {
		for lbl, n := range pkg.Targets {
			t, ok := n.(*model.TargetNode)
			if !ok || t.IsStub() {
				continue
			}
			if !removable(t.Kind) {
				continue
			}
			if visited[lbl] {
				continue
			}
			delete(pkg.Targets, lbl)
			for _, outs := range t.OutLabelListArgs {
				for _, gf := range outs {
					delete(pkg.Targets, gf.Label)
				}
			}
			for _, gf := range t.OutLabelArgs {
				delete(pkg.Targets, gf.Label)
			}
		}
	}
}

func bfsReachable(d *DAG, roots []string) map[string]bool {
	visited := map[string]bool{}
	queue := append([]string{}, roots...)
	for _, r := range roots {
		visited[r] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range d.Out[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
