package dag

import (
	"gonum.org/v1/gonum/graph"
)

// CycleFamily is one strongly connected component of size > 1: a set of
// targets that participate in a cycle together, beyond the single path
// Build's DFS reports in a CycleError.
type CycleFamily struct {
	Labels []string
}

// CycleFamilies runs Tarjan's algorithm over the DAG's full graph and
// returns every strongly connected component with more than one member,
// for diagnostics beyond the first cycle Build happens to hit.
func (d *DAG) CycleFamilies() []CycleFamily {
	byID := make(map[int64]string, len(d.ids))
	for lbl, id := range d.ids {
		byID[id] = lbl
	}

	w := newSCCWalk(d.g)
	components := w.run()

	out := make([]CycleFamily, 0, len(components))
	for _, comp := range components {
		labels := make([]string, 0, len(comp))
		for _, id := range comp {
			if lbl, ok := byID[id]; ok {
				labels = append(labels, lbl)
			}
		}
		if len(labels) > 1 {
			out = append(out, CycleFamily{Labels: labels})
		}
	}
	return out
}

// sccWalk is one run of Tarjan's strongly-connected-components algorithm
// over a gonum directed graph, tracked by node ID rather than by the
// domain labels CycleFamilies reports.
type sccWalk struct {
	g graph.Directed

	counter int
	stack   []int64
	onStack map[int64]bool
	disc    map[int64]int // discovery index, the order nodes were first visited
	low     map[int64]int // lowest discovery index reachable from this node
	found   [][]int64
}

func newSCCWalk(g graph.Directed) *sccWalk {
	return &sccWalk{
		g:       g,
		onStack: map[int64]bool{},
		disc:    map[int64]int{},
		low:     map[int64]int{},
	}
}

func (w *sccWalk) run() [][]int64 {
	nodes := w.g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		if _, seen := w.disc[id]; !seen {
			w.visit(id)
		}
	}
	return w.found
}

func (w *sccWalk) visit(id int64) {
	w.disc[id] = w.counter
	w.low[id] = w.counter
	w.counter++

	w.stack = append(w.stack, id)
	w.onStack[id] = true

	successors := w.g.From(id)
	for successors.Next() {
		next := successors.Node().ID()

		switch {
		case isUnvisited(w.disc, next):
			w.visit(next)
			w.low[id] = minInt(w.low[id], w.low[next])
		case w.onStack[next]:
			w.low[id] = minInt(w.low[id], w.disc[next])
		}
	}

	if w.low[id] != w.disc[id] {
		return
	}

	var component []int64
	for {
		n := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		w.onStack[n] = false
		component = append(component, n)
		if n == id {
			break
		}
	}
	if len(component) > 1 {
		w.found = append(w.found, component)
	}
}

func isUnvisited(disc map[int64]int, id int64) bool {
	_, ok := disc[id]
	return !ok
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
