package transform

import (
	"strings"
	"testing"

	"github.com/ritzau/buildgraph/pkg/model"
)

func singlePackageForest(targets ...*model.TargetNode) (*model.Forest, *model.Package) {
	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage("//p", "p")
	for _, t := range targets {
		pkg.Targets[t.Label] = t
	}
	return f, pkg
}

// TestAliasElisionRewritesToolsAndCmd exercises S2: alias(name="al",
// actual="//x:real") and genrule(tools=["//p:al"],
// cmd="$(location //p:al) > $@") must, after elision, have its tools edge
// point to //x:real and its cmd string contain //x:real, not //p:al.
func TestAliasElisionRewritesToolsAndCmd(t *testing.T) {
	real := model.NewTarget("//x:real", "cc_binary", "real")
	al := model.NewTarget("//p:al", "alias", "al")
	al.LabelArgs["actual"] = real
	g := model.NewTarget("//p:g", "genrule", "g")
	g.LabelListArgs["tools"] = []model.Node{al}
	g.StringArgs["cmd"] = "$(location //p:al) > $@"

	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	px := repo.GetOrCreatePackage("//x", "x")
	px.Targets[real.Label] = real
	pp := repo.GetOrCreatePackage("//p", "p")
	pp.Targets[al.Label] = al
	pp.Targets[g.Label] = g

	if err := AliasElision(f); err != nil {
		t.Fatalf("AliasElision: %v", err)
	}

	tools := g.LabelListArgs["tools"]
	if len(tools) != 1 || tools[0].NodeLabel() != "//x:real" {
		t.Fatalf("expected tools to resolve to //x:real, got %v", tools)
	}
	if strings.Contains(g.StringArgs["cmd"], "//p:al") {
		t.Errorf("cmd still references alias label: %q", g.StringArgs["cmd"])
	}
	if !strings.Contains(g.StringArgs["cmd"], "//x:real") {
		t.Errorf("cmd should reference resolved label: %q", g.StringArgs["cmd"])
	}
}

func TestAliasElisionIdempotent(t *testing.T) {
	real := model.NewTarget("//p:real", "cc_binary", "real")
	al := model.NewTarget("//p:al", "alias", "al")
	al.LabelArgs["actual"] = real
	dep := model.NewTarget("//p:dep", "cc_library", "dep")
	dep.LabelListArgs["deps"] = []model.Node{al}

	f, _ := singlePackageForest(real, al, dep)

	if err := AliasElision(f); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	first := dep.LabelListArgs["deps"][0].NodeLabel()

	if err := AliasElision(f); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	second := dep.LabelListArgs["deps"][0].NodeLabel()

	if first != second || first != "//p:real" {
		t.Errorf("expected idempotent resolution to //p:real, got %q then %q", first, second)
	}
}
