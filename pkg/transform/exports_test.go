package transform

import (
	"testing"

	"github.com/ritzau/buildgraph/pkg/model"
)

// TestExportSynthesisCrossPackageOnly exercises S6: a file referenced only
// from within its owning package gets no exports_files entry; a file
// referenced from a different package does.
func TestExportSynthesisCrossPackageOnly(t *testing.T) {
	local := &model.FileNode{Label: "//p:local.h", Name: "local.h"}
	shared := &model.FileNode{Label: "//p:shared.h", Name: "shared.h"}

	owner := model.NewTarget("//p:lib", "cc_library", "lib")
	owner.LabelListArgs["hdrs"] = []model.Node{local, shared}

	consumer := model.NewTarget("//q:consumer", "cc_library", "consumer")
	consumer.LabelListArgs["hdrs"] = []model.Node{shared}

	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	p := repo.GetOrCreatePackage("//p", "p")
	p.Targets[owner.Label] = owner
	q := repo.GetOrCreatePackage("//q", "q")
	q.Targets[consumer.Label] = consumer

	if err := ExportSynthesis(f); err != nil {
		t.Fatalf("ExportSynthesis: %v", err)
	}

	if len(p.Functions) != 1 {
		t.Fatalf("expected exactly one exports_files function in //p, got %d", len(p.Functions))
	}
	srcs := p.Functions[0].StringListArgs["srcs"]
	if len(srcs) != 1 || srcs[0] != "shared.h" {
		t.Errorf("expected exports_files(srcs=[\"shared.h\"]), got %v", srcs)
	}
	if len(q.Functions) != 0 {
		t.Errorf("consuming package should not gain an exports_files function, got %v", q.Functions)
	}
}
