// Package query converts the external build tool's textual `build` and
// `label_kind` query output into a label->Node map of (possibly still
// stub) targets, grounded on
// original_source/src/buildcleaner/parser.go (BazelBuildTargetsParser).
package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ritzau/buildgraph/pkg/catalog"
	"github.com/ritzau/buildgraph/pkg/label"
	"github.com/ritzau/buildgraph/pkg/model"
)

// incompatibleLabel is the sentinel label_list entry that marks a target
// incompatible with the current configuration (§4.3 step 6).
const incompatibleLabel = "@platforms//:incompatible"

var blockSplitter = regexp.MustCompile(`(?:\r?\n){2,}`)
var kindHeadRe = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*\(`)
var packageCommentRe = regexp.MustCompile(`#\s*(\S+)/BUILD(?:\.bazel)?:`)
var nameRe = regexp.MustCompile(`\bname\s*=\s*"([^"]*)"`)
var generatorNameRe = regexp.MustCompile(`\bgenerator_name\s*=\s*"([^"]*)"`)
var generatorFunctionRe = regexp.MustCompile(`\bgenerator_function\s*=\s*"([^"]*)"`)
var quotedStringRe = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)

// BuildResult is the outcome of parsing one `build`-format query output.
type BuildResult struct {
	Nodes        map[string]model.Node
	UnknownRules []string
}

// ParseBuildOutput implements §4.3's `build`-output algorithm: split into
// rule blocks, identify each block's kind, extract its package from the
// BUILD-file comment, and populate attribute buckets per the catalog
// schema. Label-typed references become stub TargetNodes (or, for
// external labels, opaque ExternalNodes) for the collector to resolve.
func ParseBuildOutput(text string, cat *catalog.Catalog, prefixPath string) (*BuildResult, error) {
	res := &BuildResult{Nodes: map[string]model.Node{}}
	unknownSeen := map[string]bool{}

	for _, raw := range blockSplitter.Split(text, -1) {
		block := strings.TrimSpace(raw)
		if block == "" {
			continue
		}
		m := kindHeadRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		kind := m[1]

		if cat.IsIgnored(kind) {
			continue
		}
		schema, known := cat.Lookup(kind)
		if !known {
			if !unknownSeen[kind] {
				unknownSeen[kind] = true
				res.UnknownRules = append(res.UnknownRules, kind)
			}
			continue
		}

		pkg, ok := extractPackage(block, prefixPath, kind)
		if !ok {
			// No BUILD-comment package and not `bind`: an external block,
			// returned without a package node.
			continue
		}

		name := firstMatch(nameRe, block)
		if name == "" {
			continue
		}

		if hasIncompatibleMarker(block) {
			continue
		}

		lbl := label.Label{Repo: "", Package: pkg, Name: name}.String()
		containerLabel := label.FormatContainer(false, "", pkg)

		t := model.NewTarget(lbl, kind, name)
		t.GeneratorName = firstMatch(generatorNameRe, block)
		t.GeneratorFunction = firstMatch(generatorFunctionRe, block)

		for _, attr := range schema.LabelListArgs {
			refs := extractListItems(block, attr)
			for _, ref := range refs {
				t.LabelListArgs[attr] = append(t.LabelListArgs[attr], resolveRef(containerLabel, ref))
			}
		}
		for _, attr := range schema.LabelArgs {
			if v, ok := extractQuoted(block, attr); ok {
				t.LabelArgs[attr] = resolveRef(containerLabel, v)
			}
		}
		for _, attr := range schema.StringListArgs {
			t.StringListArgs[attr] = extractListItems(block, attr)
		}
		for _, attr := range schema.StringArgs {
			if v, ok := extractQuoted(block, attr); ok {
				t.StringArgs[attr] = v
			}
		}
		for _, attr := range schema.BoolArgs {
			if v, ok := extractBoolToken(block, attr); ok {
				t.BoolArgs[attr] = v
			}
		}
		for _, attr := range schema.IntArgs {
			if v, ok := extractInt(block, attr); ok {
				t.IntArgs[attr] = v
			}
		}
		for _, attr := range schema.StrStrMapArgs {
			t.StrStrMapArgs[attr] = extractMapItems(block, attr)
		}
		for _, attr := range schema.OutLabelListArgs {
			for _, out := range extractListItems(block, attr) {
				gf := newGeneratedFile(containerLabel, out, t)
				t.OutLabelListArgs[attr] = append(t.OutLabelListArgs[attr], gf)
				res.Nodes[gf.Label] = gf
			}
		}
		for _, attr := range schema.OutLabelArgs {
			if v, ok := extractQuoted(block, attr); ok {
				gf := newGeneratedFile(containerLabel, v, t)
				t.OutLabelArgs[attr] = gf
				res.Nodes[gf.Label] = gf
			}
		}
		for _, tmpl := range schema.OutputsTemplates {
			out := strings.ReplaceAll(tmpl, "{name}", name)
			gf := newGeneratedFile(containerLabel, out, t)
			t.OutLabelListArgs["outputs"] = append(t.OutLabelListArgs["outputs"], gf)
			res.Nodes[gf.Label] = gf
		}

		t.Visibility = []string{"//visibility:public"}
		res.Nodes[lbl] = t
	}

	return res, nil
}

func hasIncompatibleMarker(block string) bool {
	if !strings.Contains(block, "target_compatible_with") {
		return false
	}
	return strings.Contains(block, incompatibleLabel)
}

func extractPackage(block, prefixPath, kind string) (string, bool) {
	m := packageCommentRe.FindStringSubmatch(block)
	if m == nil {
		if kind == "bind" {
			return "external", true
		}
		return "", false
	}
	full := m[1]
	rel := strings.TrimPrefix(full, prefixPath)
	rel = strings.Trim(rel, "/")
	return rel, true
}

func firstMatch(re *regexp.Regexp, block string) string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return m[1]
}

func extractListItems(block, attr string) []string {
	content, ok := extractBracketed(block, attr)
	if !ok {
		return nil
	}
	var out []string
	for _, m := range quotedStringRe.FindAllStringSubmatch(content, -1) {
		out = append(out, unescape(m[1]))
	}
	return out
}

func extractBracketed(block, attr string) (string, bool) {
	re := regexp.MustCompile(`(?s)\b` + regexp.QuoteMeta(attr) + `\s*=\s*\[(.*?)\]`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractQuoted(block, attr string) (string, bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(attr) + `\s*=\s*"((?:[^"\\]|\\.)*)"`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	return unescape(m[1]), true
}

func extractBoolToken(block, attr string) (bool, bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(attr) + `\s*=\s*(\w+)`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return false, false
	}
	return m[1] == "True" || m[1] == "1", true
}

func extractInt(block, attr string) (int, bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(attr) + `\s*=\s*(-?\d+)`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

func extractMapItems(block, attr string) map[string]string {
	re := regexp.MustCompile(`(?s)\b` + regexp.QuoteMeta(attr) + `\s*=\s*\{(.*?)\}`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	pairRe := regexp.MustCompile(`"((?:[^"\\]|\\.)*)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	out := map[string]string{}
	for _, p := range pairRe.FindAllStringSubmatch(m[1], -1) {
		out[unescape(p[1])] = unescape(p[2])
	}
	return out
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}

// resolveRef turns a raw attribute reference (absolute, "@external", or
// relative ":name"/"bare") into a graph node: an opaque ExternalNode for
// cross-repository labels, or an unresolved stub for same-forest labels
// that the collector will later replace with the real node.
func resolveRef(containerLabel, ref string) model.Node {
	full := absoluteLabel(containerLabel, ref)
	l, err := label.Parse(full)
	if err == nil && l.External {
		return &model.ExternalNode{Label: full}
	}
	return model.NewStub(full, nameFromLabel(full))
}

func absoluteLabel(containerLabel, ref string) string {
	if strings.HasPrefix(ref, "@") || strings.HasPrefix(ref, "//") {
		if strings.Contains(ref, ":") {
			return ref
		}
		// Package-only reference names the default target (rare in this
		// format); treat name as the last path segment.
		parts := strings.Split(ref, "/")
		return ref + ":" + parts[len(parts)-1]
	}
	name := strings.TrimPrefix(ref, ":")
	return containerLabel + ":" + name
}

func nameFromLabel(full string) string {
	idx := strings.LastIndex(full, ":")
	if idx < 0 {
		return full
	}
	return full[idx+1:]
}

func newGeneratedFile(containerLabel, out string, maternal *model.TargetNode) *model.GeneratedFileNode {
	full := absoluteLabel(containerLabel, out)
	return &model.GeneratedFileNode{Label: full, Name: nameFromLabel(full), Maternal: maternal}
}

// KindGroup is one rule-kind bucket from a label_kind parse, sorted by
// descending size for stable debug presentation (§9 supplement).
type KindGroup struct {
	Kind  string
	Nodes []model.Node
}

var labelKindLineRe = regexp.MustCompile(`^\s*(\S+)\s+\S+\s+(\S+):(\S+)\s+\(`)

// LabelKindResult is the outcome of parsing one `label_kind`-format query
// output.
type LabelKindResult struct {
	Nodes  map[string]model.Node
	Groups []KindGroup
}

// ParseLabelKindOutput implements §4.3's `label_kind`-output algorithm:
// one line per node, "<kind> <class> <package>:<name> (...)". FileNode is
// created for kind "source"; otherwise a stub/plain TargetNode using the
// schema is created (attributes are not populated from this format).
func ParseLabelKindOutput(text string, cat *catalog.Catalog) *LabelKindResult {
	byKind := map[string][]model.Node{}
	nodes := map[string]model.Node{}

	for _, line := range strings.Split(text, "\n") {
		m := labelKindLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		kind, pkgPart, name := m[1], m[2], m[3]
		var containerLabel string
		var full string
		if strings.HasPrefix(pkgPart, "@") {
			containerLabel = pkgPart
			full = pkgPart + ":" + name
		} else {
			containerLabel = pkgPart
			full = pkgPart + ":" + name
		}

		var n model.Node
		if kind == model.SourceKind {
			n = &model.FileNode{Label: full, Name: name}
		} else if cat.IsIgnored(kind) {
			continue
		} else {
			n = model.NewTarget(full, kind, name)
		}
		_ = containerLabel
		nodes[full] = n
		byKind[kind] = append(byKind[kind], n)
	}

	var groups []KindGroup
	for kind, ns := range byKind {
		groups = append(groups, KindGroup{Kind: kind, Nodes: ns})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Nodes) != len(groups[j].Nodes) {
			return len(groups[i].Nodes) > len(groups[j].Nodes)
		}
		return groups[i].Kind < groups[j].Kind
	})

	return &LabelKindResult{Nodes: nodes, Groups: groups}
}
