// Package dag builds the Target DAG over non-file targets (§4.6),
// grounded on original_source/src/buildcleaner/graph.go's DagBuilder, with
// adjacency additionally mirrored into a gonum/graph/simple.DirectedGraph
// (teacher: pkg/graph/file_graph.go) so Tarjan-SCC-style diagnostics
// (teacher: pkg/cycles/tarjan.go) can report every member of a cycle
// family, not just the first DFS-detected path.
package dag

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/buildgraph/pkg/model"
)

// CycleError reports a cycle found while traversing the target graph; the
// message names the full cycle path, e.g. "A -> B -> C -> A".
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

// DAG is the directed graph over non-file, non-generated-file targets
// after stub resolution and alias elision.
type DAG struct {
	Nodes map[string]*model.TargetNode
	Out   map[string][]string
	In    map[string][]string

	g    *simple.DirectedGraph
	ids  map[string]int64
	next int64
}

// Build walks every package in the forest, computing out/in adjacency for
// each eligible target and detecting cycles via DFS with a path set. A
// GeneratedFileNode edge is rewritten to its maternal target; FileNode and
// ExternalNode edges are dropped (they are not traversed).
func Build(forest *model.Forest) (*DAG, error) {
	d := &DAG{
		Nodes: map[string]*model.TargetNode{},
		Out:   map[string][]string{},
		In:    map[string][]string{},
		g:     simple.NewDirectedGraph(),
		ids:   map[string]int64{},
	}

	for _, pkg := range forest.AllPackages() {
		for _, n := range pkg.Targets {
			t, ok := n.(*model.TargetNode)
			if !ok || t.IsStub() {
				continue
			}
			d.Nodes[t.Label] = t
			d.id(t.Label)
		}
	}

	for lbl, t := range d.Nodes {
		for _, e := range edgesOf(t) {
			if _, ok := d.Nodes[e]; !ok {
				continue
			}
			d.Out[lbl] = append(d.Out[lbl], e)
			d.In[e] = append(d.In[e], lbl)
			d.g.SetEdge(d.g.NewEdge(d.node(lbl), d.node(e)))
		}
	}

	visited := map[string]bool{}
	for lbl := range d.Nodes {
		if visited[lbl] {
			continue
		}
		if err := d.dfs(lbl, visited, map[string]bool{}, nil); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (d *DAG) dfs(lbl string, visited, onPath map[string]bool, path []string) error {
	if onPath[lbl] {
		cyclePath := append(append([]string{}, path...), lbl)
		return &CycleError{Path: cyclePath}
	}
	if visited[lbl] {
		return nil
	}
	onPath[lbl] = true
	path = append(path, lbl)
	for _, next := range d.Out[lbl] {
		if err := d.dfs(next, visited, onPath, path); err != nil {
			return err
		}
	}
	onPath[lbl] = false
	visited[lbl] = true
	return nil
}

// edgesOf returns the out-edge labels of one target, rewriting generated
// file references to their maternal target and dropping file/external
// references.
func edgesOf(t *model.TargetNode) []string {
	var out []string
	add := func(n model.Node) {
		switch v := n.(type) {
		case *model.TargetNode:
			if !v.IsStub() {
				out = append(out, v.Label)
			}
		case *model.GeneratedFileNode:
			if v.Maternal != nil {
				out = append(out, v.Maternal.Label)
			}
		case *model.FileNode, *model.ExternalNode:
			// not traversed
		}
	}
	for _, refs := range t.LabelListArgs {
		for _, r := range refs {
			add(r)
		}
	}
	for _, r := range t.LabelArgs {
		add(r)
	}
	return out
}

func (d *DAG) id(lbl string) int64 {
	if id, ok := d.ids[lbl]; ok {
		return id
	}
	id := d.next
	d.next++
	d.ids[lbl] = id
	return id
}

func (d *DAG) node(lbl string) simple.Node {
	n := simple.Node(d.id(lbl))
	if d.g.Node(n.ID()) == nil {
		d.g.AddNode(n)
	}
	return n
}

// SortedByDegree returns DAG node labels sorted by ascending
// "-(|out|<<15 | |in|)" (most out-edges first, ties broken by most
// in-edges), matching the presentation order used by the original
// implementation's debug graph printer.
func (d *DAG) SortedByDegree() []string {
	labels := make([]string, 0, len(d.Nodes))
	for lbl := range d.Nodes {
		labels = append(labels, lbl)
	}
	key := func(lbl string) int {
		return -((len(d.Out[lbl]) << 15) | len(d.In[lbl]))
	}
	for i := 1; i < len(labels); i++ {
		for j := i; j > 0 && key(labels[j]) < key(labels[j-1]); j-- {
			labels[j], labels[j-1] = labels[j-1], labels[j]
		}
	}
	return labels
}
