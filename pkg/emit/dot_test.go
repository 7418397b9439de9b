package emit

import (
	"strings"
	"testing"

	"github.com/ritzau/buildgraph/pkg/dag"
	"github.com/ritzau/buildgraph/pkg/model"
)

func TestDotCollapsesBidirectionalEdges(t *testing.T) {
	a := model.NewTarget("//p:a", "cc_library", "a")
	b := model.NewTarget("//p:b", "cc_library", "b")
	a.LabelListArgs["deps"] = []model.Node{b}
	b.LabelListArgs["deps"] = []model.Node{a}

	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage("//p", "p")
	pkg.Targets[a.Label] = a
	pkg.Targets[b.Label] = b

	// This particular pair is a 2-cycle, which dag.Build would reject.
	// Build the DAG manually here to exercise just the dot emitter's
	// bidirectional-edge collapsing.
	d := &dag.DAG{
		Nodes: map[string]*model.TargetNode{"//p:a": a, "//p:b": b},
		Out:   map[string][]string{"//p:a": {"//p:b"}, "//p:b": {"//p:a"}},
		In:    map[string][]string{"//p:a": {"//p:b"}, "//p:b": {"//p:a"}},
	}

	out := Dot(d, []string{"//p:a"})
	if !strings.Contains(out, "dir=both") {
		t.Errorf("expected a collapsed bidirectional edge, got:\n%s", out)
	}
	if strings.Count(out, "->") != 1 {
		t.Errorf("expected exactly one edge line after collapsing, got:\n%s", out)
	}
}
