package emit

import (
	"strings"
	"testing"

	"github.com/ritzau/buildgraph/pkg/model"
)

func TestDebugTreeFiltering(t *testing.T) {
	lib := model.NewTarget("//p:lib", "cc_library", "lib")
	file := &model.FileNode{Label: "//p:lib.cc", Name: "lib.cc"}

	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage("//p", "p")
	pkg.Targets[lib.Label] = lib
	pkg.Targets[file.Label] = file

	out := DebugTree(f, TreeOptions{ShowTargets: true, ShowFiles: false})
	if !strings.Contains(out, "//p:lib") {
		t.Errorf("expected target to appear when ShowTargets is set:\n%s", out)
	}
	if strings.Contains(out, "//p:lib.cc") {
		t.Errorf("expected file to be filtered out when ShowFiles is false:\n%s", out)
	}

	out2 := DebugTree(f, TreeOptions{ShowTargets: false, ShowFiles: true})
	if strings.Contains(out2, "cc_library //p:lib") {
		t.Errorf("expected target to be filtered out when ShowTargets is false:\n%s", out2)
	}
	if !strings.Contains(out2, "//p:lib.cc") {
		t.Errorf("expected file to appear when ShowFiles is set:\n%s", out2)
	}
}
