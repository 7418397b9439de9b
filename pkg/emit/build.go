// Package emit renders the forest back into text: the per-package BUILD
// file pretty-printer (§4.7/§6.4), the Graphviz target-graph emitter
// (§4.7/§6.3), and the debug preorder tree dump (§8 supplemented
// feature). Grounded on original_source/src/buildcleaner/printer.py.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ritzau/buildgraph/pkg/catalog"
	"github.com/ritzau/buildgraph/pkg/model"
)

// typeRank is the first sort key for a package's emitted targets: kinds
// the catalog marks as Macro get rank 0 and sort ahead of every other
// kind (rank 1). NoEmit kinds are filtered out before sorting.
func typeRank(kind string, cat *catalog.Catalog) int {
	if schema, ok := cat.Lookup(kind); ok && schema.Macro {
		return 0
	}
	return 1
}

// BuildFile renders one package's emittable targets and functions as a
// BUILD file body, or "" if the package has nothing to emit.
func BuildFile(pkg *model.Package, cat *catalog.Catalog) string {
	type entry struct {
		target *model.TargetNode
		schema catalog.RuleSchema
	}
	var entries []entry
	loads := map[string]bool{}

	for _, n := range pkg.Targets {
		t, ok := n.(*model.TargetNode)
		if !ok || t.IsStub() {
			continue
		}
		schema, ok := cat.Lookup(t.Kind)
		if !ok || schema.NoEmit {
			continue
		}
		entries = append(entries, entry{t, schema})
		if schema.ImportStatement != "" {
			loads[schema.ImportStatement] = true
		}
	}

	if len(entries) == 0 && len(pkg.Functions) == 0 {
		return ""
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		ra, rb := typeRank(a.target.Kind, cat), typeRank(b.target.Kind, cat)
		if ra != rb {
			return ra < rb
		}
		if a.target.Kind != b.target.Kind {
			return a.target.Kind < b.target.Kind
		}
		return a.target.Label < b.target.Label
	})

	var sections []string

	header := fmt.Sprintf("# Package: %s", pkg.Label)
	sections = append(sections, header)

	if len(loads) > 0 {
		loadLines := make([]string, 0, len(loads))
		for l := range loads {
			loadLines = append(loadLines, l)
		}
		sort.Strings(loadLines)
		sections = append(sections, strings.Join(loadLines, "\n"))
	}

	for _, fn := range pkg.Functions {
		sections = append(sections, renderFunction(fn))
	}

	var body []string
	for _, e := range entries {
		body = append(body, generatorComment(e.target)+renderTarget(e.target, e.schema, pkg.Label))
	}
	sections = append(sections, body...)

	return strings.Join(sections, "\n\n") + "\n"
}

// generatorComment prints the macro-expansion provenance of a target that
// still carries it (came from an uncollapsed macro, or a collapse
// reducer chose to keep the annotation) as a comment above its
// definition, or "" if the target has none.
func generatorComment(t *model.TargetNode) string {
	var lines []string
	if t.GeneratorFunction != "" {
		lines = append(lines, fmt.Sprintf("# generator_function = %q", t.GeneratorFunction))
	}
	if t.GeneratorName != "" {
		lines = append(lines, fmt.Sprintf("# generator_name = %q", t.GeneratorName))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderFunction(fn *model.Function) string {
	var parts []string
	for attr, refs := range fn.LabelListArgs {
		parts = append(parts, renderLabelListAttr(attr, refs, ""))
	}
	for attr, vals := range fn.StringListArgs {
		parts = append(parts, renderStringListAttr(attr, vals))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s(\n%s\n)", fn.Kind, strings.Join(indentAll(parts), ",\n"))
}

func renderTarget(t *model.TargetNode, schema catalog.RuleSchema, pkgLabel string) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("    name = %q,", t.Name))

	for _, attr := range sortedKeys(t.LabelListArgs) {
		refs := t.LabelListArgs[attr]
		if len(refs) == 0 {
			continue
		}
		lines = append(lines, "    "+renderLabelListAttr(attr, refs, pkgLabel)+",")
	}
	for _, attr := range sortedKeys(t.StringListArgs) {
		vals := t.StringListArgs[attr]
		if len(vals) == 0 {
			continue
		}
		lines = append(lines, "    "+renderStringListAttr(attr, vals)+",")
	}
	outs := t.OutLabelListArgsNames()
	for _, attr := range sortedKeys(outs) {
		lines = append(lines, "    "+renderStringListAttr(attr, outs[attr])+",")
	}
	for _, attr := range sortedKeys(t.StringArgs) {
		lines = append(lines, fmt.Sprintf("    %s = %q,", attr, t.StringArgs[attr]))
	}
	for _, attr := range sortedKeys(t.LabelArgs) {
		r := t.LabelArgs[attr]
		if r == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("    %s = %q,", attr, shortenLabel(r, pkgLabel)))
	}
	for _, attr := range sortedKeys(t.BoolArgs) {
		lines = append(lines, fmt.Sprintf("    %s = %s,", attr, pyBool(t.BoolArgs[attr])))
	}
	for _, attr := range sortedKeys(t.IntArgs) {
		lines = append(lines, fmt.Sprintf("    %s = %d,", attr, t.IntArgs[attr]))
	}
	for _, attr := range sortedKeys(t.StrStrMapArgs) {
		lines = append(lines, "    "+renderMapAttr(attr, t.StrStrMapArgs[attr])+",")
	}

	if schema.Visibility {
		lines = append(lines, `    visibility = ["//visibility:public"],`)
	}

	return fmt.Sprintf("%s(\n%s\n)", t.Kind, strings.Join(lines, "\n"))
}

func renderLabelListAttr(attr string, refs []model.Node, pkgLabel string) string {
	shortened := make([]string, len(refs))
	for i, r := range refs {
		shortened[i] = shortenLabel(r, pkgLabel)
	}
	sort.Strings(shortened)
	return attr + " = " + quotedList(shortened, true)
}

func renderStringListAttr(attr string, vals []string) string {
	return attr + " = " + quotedList(vals, false)
}

func renderMapAttr(attr string, m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q: %q", k, m[k]))
	}
	return attr + " = {" + strings.Join(parts, ", ") + "}"
}

func quotedList(vals []string, sortIt bool) string {
	if sortIt {
		sort.Strings(vals)
	}
	if len(vals) == 1 {
		return fmt.Sprintf("[%q]", vals[0])
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, v := range vals {
		fmt.Fprintf(&b, "        %q,\n", v)
	}
	b.WriteString("    ]")
	return b.String()
}

// shortenLabel renders a label reference the way the build-file emitter
// does: any same-package node (file, generated file, or target) shortens
// to ":name"; everything else (other packages, external labels) prints
// in full.
func shortenLabel(n model.Node, pkgLabel string) string {
	switch v := n.(type) {
	case *model.FileNode:
		if samePackage(v.Label, pkgLabel) {
			return ":" + v.Name
		}
		return v.Label
	case *model.GeneratedFileNode:
		if samePackage(v.Label, pkgLabel) {
			return ":" + v.Name
		}
		return v.Label
	case *model.TargetNode:
		if samePackage(v.Label, pkgLabel) {
			return ":" + v.Name
		}
		return v.Label
	case *model.ExternalNode:
		return v.Label
	default:
		return n.NodeLabel()
	}
}

func samePackage(label, pkgLabel string) bool {
	if idx := strings.Index(label, ":"); idx >= 0 {
		return label[:idx] == pkgLabel
	}
	return false
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indentAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "    " + l
	}
	return out
}
