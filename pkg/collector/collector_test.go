package collector

import (
	"context"
	"testing"

	"github.com/ritzau/buildgraph/pkg/bazelrunner"
	"github.com/ritzau/buildgraph/pkg/catalog"
	"github.com/ritzau/buildgraph/pkg/model"
)

// fixedExecutor always returns the same build/label_kind text regardless
// of the requested args, which is sufficient for a single-iteration test.
type fixedExecutor struct {
	build     string
	labelKind string
}

func (f *fixedExecutor) RunQuery(ctx context.Context, workspacePath string, args []string) ([]byte, error) {
	for _, a := range args {
		if a == string(bazelrunner.FormatLabelKind) {
			return []byte(f.labelKind), nil
		}
	}
	return []byte(f.build), nil
}

func TestCollectResolvesSourceFiles(t *testing.T) {
	const build = `cc_library(
  name = "a",
  srcs = ["a.cc"],
  hdrs = ["a.h"],
  deps = [],
)
# /src/pkg/BUILD:1:1`

	const labelKind = `source file //pkg:a.cc (abc)
source file //pkg:a.h (abc)
cc_library rule //pkg:a (abc)
`

	runner := bazelrunner.New("/ws", bazelrunner.Config{})
	runner.Exec = &fixedExecutor{build: build, labelKind: labelKind}

	c := &Collector{Runner: runner, Catalog: catalog.Builtin(), PrefixPath: "/src"}
	nodes, err := c.Collect(context.Background(), []string{"//pkg:a"}, nil, "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	target, ok := nodes["//pkg:a"].(*model.TargetNode)
	if !ok {
		t.Fatalf("expected //pkg:a target, got %#v", nodes["//pkg:a"])
	}
	srcs := target.LabelListArgs["srcs"]
	if len(srcs) != 1 {
		t.Fatalf("srcs = %v", srcs)
	}
	if _, ok := srcs[0].(*model.FileNode); !ok {
		t.Errorf("srcs[0] should be resolved to FileNode, got %T", srcs[0])
	}
}

func TestCollectReportsAlienTarget(t *testing.T) {
	const build = `cc_library(
  name = "a",
  deps = ["//other:missing"],
)
# /src/pkg/BUILD:1:1`
	const labelKind = `cc_library rule //pkg:a (abc)
`
	runner := bazelrunner.New("/ws", bazelrunner.Config{})
	runner.Exec = &fixedExecutor{build: build, labelKind: labelKind}

	c := &Collector{Runner: runner, Catalog: catalog.Builtin(), PrefixPath: "/src"}
	_, err := c.Collect(context.Background(), []string{"//pkg:a"}, nil, "")
	if err == nil {
		t.Fatal("expected UnresolvedTargetsError")
	}
	if _, ok := err.(*UnresolvedTargetsError); !ok {
		t.Errorf("expected UnresolvedTargetsError, got %T: %v", err, err)
	}
}
