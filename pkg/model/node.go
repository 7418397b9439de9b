// Package model defines the graph's node variants as a tagged union:
// containers (Root, Repository, Package), Target (a schema-backed
// attribute bag), FileNode and GeneratedFileNode (leaves), and Function
// (a package-level non-target call). Polymorphism is done by type switch
// rather than inheritance, per the node hierarchy in
// original_source/src/buildcleaner/node.go.
package model

import "fmt"

// StubKind is the synthetic kind of a placeholder TargetNode standing in
// for a label that has been referenced but not yet parsed.
const StubKind = "__target_stub__"

// SourceKind is the kind reported for FileNode entries in label_kind
// query output.
const SourceKind = "source"

// Node is any label-addressable graph vertex that can appear as the
// target end of a label-typed attribute: a Target, a FileNode, a
// GeneratedFileNode, or an opaque ExternalNode.
type Node interface {
	NodeLabel() string
	NodeKind() string
}

// ExternalNode is an opaque leaf for a label belonging to another
// repository. External labels are never expanded (invariant 3).
type ExternalNode struct {
	Label string
}

func (n *ExternalNode) NodeLabel() string { return n.Label }
func (n *ExternalNode) NodeKind() string  { return "external" }

// FileNode is a leaf representing a source file.
type FileNode struct {
	Label string
	Name  string
}

func (n *FileNode) NodeLabel() string { return n.Label }
func (n *FileNode) NodeKind() string  { return SourceKind }

// GeneratedFileNode is a leaf representing a declared rule output. It
// carries a back-reference to the producing ("maternal") target but never
// owns it.
type GeneratedFileNode struct {
	Label    string
	Name     string
	Maternal *TargetNode
}

func (n *GeneratedFileNode) NodeLabel() string { return n.Label }
func (n *GeneratedFileNode) NodeKind() string  { return "generated" }

// TargetNode is a concrete rule instance (or an unresolved stub for one).
// Attribute values are grouped into buckets matching the rule catalog's
// semantic types; label-typed buckets hold direct Node references once
// resolved.
type TargetNode struct {
	Label string
	Kind  string
	Name  string

	LabelListArgs    map[string][]Node
	LabelArgs        map[string]Node
	StringListArgs   map[string][]string
	StringArgs       map[string]string
	BoolArgs         map[string]bool
	IntArgs          map[string]int
	StrStrMapArgs    map[string]map[string]string
	OutLabelListArgs map[string][]*GeneratedFileNode
	OutLabelArgs     map[string]*GeneratedFileNode

	// GeneratorName/GeneratorFunction record macro-expansion provenance
	// used to group sibling private rules for collapsing (§4.8.B).
	GeneratorName     string
	GeneratorFunction string

	Visibility []string
}

func (n *TargetNode) NodeLabel() string { return n.Label }
func (n *TargetNode) NodeKind() string  { return n.Kind }

// IsStub reports whether this target is an unresolved placeholder.
func (n *TargetNode) IsStub() bool { return n.Kind == StubKind }

// OutLabelListArgsNames projects each out_label_list/out_label bucket to
// the bare file names of its declared outputs, the form the build-file
// emitter prints them in (e.g. genrule's "outs").
func (n *TargetNode) OutLabelListArgsNames() map[string][]string {
	out := map[string][]string{}
	for attr, gfs := range n.OutLabelListArgs {
		if len(gfs) == 0 {
			continue
		}
		names := make([]string, len(gfs))
		for i, gf := range gfs {
			names[i] = gf.Name
		}
		out[attr] = names
	}
	for attr, gf := range n.OutLabelArgs {
		if gf == nil {
			continue
		}
		out[attr] = []string{gf.Name}
	}
	return out
}

// NewStub creates a placeholder TargetNode for a label referenced before
// it has been parsed.
func NewStub(lbl, name string) *TargetNode {
	return &TargetNode{Label: lbl, Kind: StubKind, Name: name}
}

// NewTarget creates an empty, fully-allocated TargetNode of the given
// kind ready for attribute population by the parser.
func NewTarget(lbl, kind, name string) *TargetNode {
	return &TargetNode{
		Label:            lbl,
		Kind:             kind,
		Name:             name,
		LabelListArgs:    map[string][]Node{},
		LabelArgs:        map[string]Node{},
		StringListArgs:   map[string][]string{},
		StringArgs:       map[string]string{},
		BoolArgs:         map[string]bool{},
		IntArgs:          map[string]int{},
		StrStrMapArgs:    map[string]map[string]string{},
		OutLabelListArgs: map[string][]*GeneratedFileNode{},
		OutLabelArgs:     map[string]*GeneratedFileNode{},
	}
}

// Clone makes a shallow copy of the target with fresh attribute maps
// (values are copied by reference), used by transformers that build a new
// target from an existing one (e.g. the cc_header_only_library merge).
func (n *TargetNode) Clone() *TargetNode {
	c := NewTarget(n.Label, n.Kind, n.Name)
	for k, v := range n.LabelListArgs {
		c.LabelListArgs[k] = append([]Node{}, v...)
	}
	for k, v := range n.LabelArgs {
		c.LabelArgs[k] = v
	}
	for k, v := range n.StringListArgs {
		c.StringListArgs[k] = append([]string{}, v...)
	}
	for k, v := range n.StringArgs {
		c.StringArgs[k] = v
	}
	for k, v := range n.BoolArgs {
		c.BoolArgs[k] = v
	}
	for k, v := range n.IntArgs {
		c.IntArgs[k] = v
	}
	for k, v := range n.StrStrMapArgs {
		m := map[string]string{}
		for kk, vv := range v {
			m[kk] = vv
		}
		c.StrStrMapArgs[k] = m
	}
	for k, v := range n.OutLabelListArgs {
		c.OutLabelListArgs[k] = append([]*GeneratedFileNode{}, v...)
	}
	for k, v := range n.OutLabelArgs {
		c.OutLabelArgs[k] = v
	}
	c.GeneratorName = n.GeneratorName
	c.GeneratorFunction = n.GeneratorFunction
	c.Visibility = append([]string{}, n.Visibility...)
	return c
}

// Function is a package-level non-target call, such as exports_files.
type Function struct {
	Kind           string
	LabelListArgs  map[string][]Node
	StringListArgs map[string][]string
}

// LabelCollisionError reports that two nodes claim the same label within
// one container.
type LabelCollisionError struct {
	Label string
}

func (e *LabelCollisionError) Error() string {
	return fmt.Sprintf("label collision: %q already present in container", e.Label)
}
