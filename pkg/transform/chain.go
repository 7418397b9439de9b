// Package transform implements the graph-rewriting passes of §4.8:
// alias elision, private-rule/public-macro collapse, the
// cc_header_only_library merge, cc_library/cc_shared_library deep merge,
// cross-package export synthesis, and unreachable-target pruning.
// Grounded on original_source/src/buildcleaner/transformer.go's
// RuleTransformer/ChainTransformer composition.
package transform

import (
	"fmt"

	"github.com/ritzau/buildgraph/pkg/model"
)

// TransformError reports a transformer that could not find an expected
// sibling or target kind. Label collisions on insert and cycles surface
// as model.LabelCollisionError and dag.CycleError instead.
type TransformError struct {
	Transformer string
	Package     string
	GroupKey    string
	MissingKind string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform error in %s: package=%s group=%s missing=%s",
		e.Transformer, e.Package, e.GroupKey, e.MissingKind)
}

// Transformer rewrites a forest in place.
type Transformer func(forest *model.Forest) error

// Chain composes transformers into one sequential pass; order is
// semantically significant (§4.8).
type Chain []Transformer

// Run executes every transformer in order, stopping at the first error.
func (c Chain) Run(forest *model.Forest) error {
	for _, t := range c {
		if err := t(forest); err != nil {
			return err
		}
	}
	return nil
}
