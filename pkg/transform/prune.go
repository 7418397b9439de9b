package transform

import (
	"github.com/ritzau/buildgraph/pkg/dag"
	"github.com/ritzau/buildgraph/pkg/model"
)

// UnreachableRemoval implements §4.8.F: build the target DAG fresh (so it
// reflects every earlier rewrite) and delete every removable node not
// reachable from artifactRoots.
func UnreachableRemoval(artifactRoots []string, removable dag.Removable) Transformer {
	return func(forest *model.Forest) error {
		d, err := dag.Build(forest)
		if err != nil {
			return err
		}
		dag.PruneUnreachable(forest, d, artifactRoots, removable)
		return nil
	}
}
