package emit

import (
	"strings"
	"testing"

	"github.com/ritzau/buildgraph/pkg/catalog"
	"github.com/ritzau/buildgraph/pkg/model"
)

func TestBuildFileShortensSamePackageLabels(t *testing.T) {
	cat := catalog.Builtin()

	hdr := &model.FileNode{Label: "//p:foo.h", Name: "foo.h"}
	dep := model.NewTarget("//p:dep", "cc_library", "dep")

	lib := model.NewTarget("//p:lib", "cc_library", "lib")
	lib.LabelListArgs["hdrs"] = []model.Node{hdr}
	lib.LabelListArgs["deps"] = []model.Node{dep}

	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage("//p", "p")
	pkg.Targets[dep.Label] = dep
	pkg.Targets[lib.Label] = lib

	out := BuildFile(pkg, cat)
	if !strings.Contains(out, `":foo.h"`) {
		t.Errorf("expected colon-prefixed :foo.h in output:\n%s", out)
	}
	if !strings.Contains(out, `":dep"`) {
		t.Errorf("expected shortened :dep label in output:\n%s", out)
	}
	if !strings.Contains(out, "# Package: //p") {
		t.Errorf("expected package header, got:\n%s", out)
	}
}

func TestBuildFilePrintsGeneratorComment(t *testing.T) {
	cat := catalog.Builtin()
	lib := model.NewTarget("//p:lib_impl", "cc_library", "lib_impl")
	lib.GeneratorFunction = "cc_header_only_library"
	lib.GeneratorName = "lib"

	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage("//p", "p")
	pkg.Targets[lib.Label] = lib

	out := BuildFile(pkg, cat)
	if !strings.Contains(out, `# generator_function = "cc_header_only_library"`) {
		t.Errorf("expected generator_function comment, got:\n%s", out)
	}
	if !strings.Contains(out, `# generator_name = "lib"`) {
		t.Errorf("expected generator_name comment, got:\n%s", out)
	}
}

func TestBuildFileSkipsNoEmitKinds(t *testing.T) {
	cat := catalog.Builtin()
	bind := model.NewTarget("//external:x", "bind", "x")

	f := model.NewForest()
	repo := f.Internal.GetOrCreateRepository("//", "")
	pkg := repo.GetOrCreatePackage("//external", "external")
	pkg.Targets[bind.Label] = bind

	out := BuildFile(pkg, cat)
	if out != "" {
		t.Errorf("expected empty output for a package with only a NoEmit kind, got:\n%s", out)
	}
}
