package tree

import (
	"testing"

	"github.com/ritzau/buildgraph/pkg/model"
)

func TestBuildPlacesTargetsUnderPackages(t *testing.T) {
	a := model.NewTarget("//pkg:a", "cc_library", "a")
	nodes := map[string]model.Node{
		"//pkg:a": a,
	}

	forest, err := Build(nodes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	repo, ok := forest.Internal.Repositories["//"]
	if !ok {
		t.Fatalf("expected internal repository //, got %v", forest.Internal.Repositories)
	}
	pkg, ok := repo.Packages["//pkg"]
	if !ok {
		t.Fatalf("expected package //pkg, got %v", repo.Packages)
	}
	if got := pkg.Get("//pkg:a"); got != a {
		t.Errorf("expected target a under //pkg, got %v", got)
	}
}

func TestBuildSeparatesExternal(t *testing.T) {
	ext := &model.ExternalNode{Label: "@dep//lib:lib"}
	nodes := map[string]model.Node{
		"@dep//lib:lib": ext,
	}
	forest, err := Build(nodes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(forest.Internal.Repositories) != 0 {
		t.Errorf("expected no internal repos, got %v", forest.Internal.Repositories)
	}
	repo, ok := forest.External.Repositories["@dep//"]
	if !ok {
		t.Fatalf("expected external repository @dep//, got %v", forest.External.Repositories)
	}
	if _, ok := repo.Packages["@dep//lib"]; !ok {
		t.Errorf("expected package @dep//lib")
	}
}
