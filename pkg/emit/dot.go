package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ritzau/buildgraph/pkg/dag"
)

// Dot renders a Graphviz digraph for the given DAG, restricted to the
// labels reachable from roots. Node labels are "rank:|out|:|in|" per
// §4.7; bidirectional edges are collapsed into one undirected-looking
// edge, color-coded to distinguish them from one-way edges.
func Dot(d *dag.DAG, roots []string) string {
	reachable := reachableSet(d, roots)

	labels := make([]string, 0, len(reachable))
	for lbl := range reachable {
		labels = append(labels, lbl)
	}
	sort.Strings(labels)

	rank := map[string]int{}
	for i, lbl := range labels {
		rank[lbl] = i
	}

	var b strings.Builder
	b.WriteString("digraph target_graph {\n")
	for _, lbl := range labels {
		out, in := len(d.Out[lbl]), len(d.In[lbl])
		fmt.Fprintf(&b, "  n%d [label=%q];\n", rank[lbl], fmt.Sprintf("%d:%d:%d", rank[lbl], out, in))
	}

	seen := map[string]bool{}
	for _, from := range labels {
		for _, to := range d.Out[from] {
			if !reachable[to] {
				continue
			}
			key := edgeKey(from, to)
			if seen[key] {
				continue
			}
			seen[key] = true
			bidirectional := hasEdge(d, to, from)
			if bidirectional {
				fmt.Fprintf(&b, "  n%d -> n%d [dir=both, color=red];\n", rank[from], rank[to])
			} else {
				fmt.Fprintf(&b, "  n%d -> n%d;\n", rank[from], rank[to])
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func edgeKey(a, b string) string {
	if a < b {
		return a + "\x00" + b
	}
	return b + "\x00" + a
}

func hasEdge(d *dag.DAG, from, to string) bool {
	for _, n := range d.Out[from] {
		if n == to {
			return true
		}
	}
	return false
}

func reachableSet(d *dag.DAG, roots []string) map[string]bool {
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
