package transform

import (
	"testing"

	"github.com/ritzau/buildgraph/pkg/model"
)

func TestMacroCollapseBuildTest(t *testing.T) {
	src1 := &model.FileNode{Label: "//p:t1.py", Name: "t1.py"}
	gen := model.NewTarget("//p:g1", "genrule", "g1")
	gen.LabelListArgs["srcs"] = []model.Node{src1}
	gen.GeneratorFunction = "build_test"
	gen.GeneratorName = "bt"

	empty := model.NewTarget("//p:bt", "_empty_test", "bt")
	empty.GeneratorFunction = "build_test"
	empty.GeneratorName = "bt"

	f, pkg := singlePackageForest(gen, empty)

	if err := MacroCollapse(f); err != nil {
		t.Fatalf("MacroCollapse: %v", err)
	}

	if _, ok := pkg.Targets["//p:g1"]; ok {
		t.Error("private genrule should be collapsed away")
	}
	merged, ok := pkg.Targets["//p:bt"].(*model.TargetNode)
	if !ok {
		t.Fatal("expected merged build_test at //p:bt")
	}
	if merged.Kind != "build_test" {
		t.Errorf("expected kind build_test, got %s", merged.Kind)
	}
	targets := merged.LabelListArgs["targets"]
	if len(targets) != 1 || targets[0].NodeLabel() != "//p:t1.py" {
		t.Errorf("expected targets to include genrule srcs, got %v", targets)
	}
}

func TestMacroCollapseTransitiveHdrs(t *testing.T) {
	dep := model.NewTarget("//p:dep", "cc_library", "dep")

	priv := model.NewTarget("//p:x_gather", "_transitive_hdrs", "x_gather")
	priv.LabelListArgs["deps"] = []model.Node{dep}
	priv.GeneratorFunction = "transitive_hdrs"
	priv.GeneratorName = "x"

	f, pkg := singlePackageForest(dep, priv)

	if err := MacroCollapse(f); err != nil {
		t.Fatalf("MacroCollapse: %v", err)
	}

	merged, ok := pkg.Targets["//p:x_gather"].(*model.TargetNode)
	if !ok {
		t.Fatal("expected collapsed target still present under its original label")
	}
	if merged.Kind != "transitive_hdrs" {
		t.Errorf("expected kind transitive_hdrs, got %s", merged.Kind)
	}
	deps := merged.LabelListArgs["deps"]
	if len(deps) != 1 || deps[0].NodeLabel() != "//p:dep" {
		t.Errorf("expected deps carried through, got %v", deps)
	}
}

func TestMacroCollapseMissingReducerLeavesGroupIntact(t *testing.T) {
	a := model.NewTarget("//p:a", "cc_library", "a")
	a.GeneratorFunction = "some_unregistered_macro"
	a.GeneratorName = "m"

	f, pkg := singlePackageForest(a)

	if err := MacroCollapse(f); err != nil {
		t.Fatalf("MacroCollapse: %v", err)
	}
	if _, ok := pkg.Targets["//p:a"]; !ok {
		t.Error("group with no registered reducer should be left intact")
	}
}
