package transform

import (
	"testing"

	"github.com/ritzau/buildgraph/pkg/dag"
	"github.com/ritzau/buildgraph/pkg/model"
)

// TestChainRunsInOrder verifies the alias-elision-then-prune ordering: an
// alias edge must be resolved before pruning decides reachability,
// otherwise a target only reachable through an alias would be wrongly
// pruned as unreachable.
func TestChainRunsInOrder(t *testing.T) {
	real := model.NewTarget("//p:real", "cc_library", "real")
	al := model.NewTarget("//p:al", "alias", "al")
	al.LabelArgs["actual"] = real
	bin := model.NewTarget("//p:bin", "cc_binary", "bin")
	bin.LabelListArgs["deps"] = []model.Node{al}

	f, pkg := singlePackageForest(real, al, bin)

	chain := Chain{
		AliasElision,
		UnreachableRemoval([]string{"//p:bin"}, dag.DefaultRemovable()),
	}
	if err := chain.Run(f); err != nil {
		t.Fatalf("chain.Run: %v", err)
	}

	if _, ok := pkg.Targets["//p:real"]; !ok {
		t.Error("//p:real should survive pruning once reachable via the elided alias")
	}
}
