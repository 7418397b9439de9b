package transform

import (
	"testing"

	"github.com/ritzau/buildgraph/pkg/model"
)

// TestHeaderOnlyMerge exercises S4: a package with a _transitive_hdrs
// "foo_gather", a _transitive_parameters_library "foo_params", and a
// cc_library "foo" collapses into one cc_header_only_library "foo".
func TestHeaderOnlyMerge(t *testing.T) {
	gather := model.NewTarget("//p:foo_gather", "_transitive_hdrs", "foo_gather")
	depA := model.NewTarget("//p:a", "cc_library", "a")
	gather.LabelListArgs["deps"] = []model.Node{depA}

	params := model.NewTarget("//p:foo_params", "_transitive_parameters_library", "foo_params")

	lib := model.NewTarget("//p:foo", "cc_library", "foo")
	hdr := &model.FileNode{Label: "//p:foo.h", Name: "foo.h"}
	lib.LabelListArgs["hdrs"] = []model.Node{hdr}
	lib.LabelListArgs["deps"] = []model.Node{params, depA}
	lib.StringListArgs["copts"] = []string{"-Wall"}

	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage("//p", "p")
	for _, n := range []model.Node{gather, params, lib, depA} {
		pkg.Targets[n.NodeLabel()] = n
	}

	if err := HeaderOnlyMerge(f); err != nil {
		t.Fatalf("HeaderOnlyMerge: %v", err)
	}

	if _, ok := pkg.Targets["//p:foo_gather"]; ok {
		t.Error("gather target should be removed")
	}
	if _, ok := pkg.Targets["//p:foo_params"]; ok {
		t.Error("params target should be removed")
	}
	merged, ok := pkg.Targets["//p:foo"].(*model.TargetNode)
	if !ok {
		t.Fatal("expected merged cc_header_only_library at //p:foo")
	}
	if merged.Kind != "cc_header_only_library" {
		t.Errorf("expected kind cc_header_only_library, got %s", merged.Kind)
	}
	if len(merged.LabelListArgs["hdrs"]) != 0 {
		t.Errorf("expected cc_library hdrs not carried over, got %v", merged.LabelListArgs["hdrs"])
	}
	if len(merged.LabelListArgs["deps"]) != 1 || merged.LabelListArgs["deps"][0].NodeLabel() != "//p:a" {
		t.Errorf("expected deps from gather target, got %v", merged.LabelListArgs["deps"])
	}
	extra := merged.LabelListArgs["extra_deps"]
	if len(extra) != 1 || extra[0].NodeLabel() != "//p:a" {
		t.Errorf("expected extra_deps = cc_library deps minus params library, got %v", extra)
	}
}
