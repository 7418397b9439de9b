// Package catalog holds the static, process-wide rule schema: which
// attribute buckets each rule kind declares, and which kinds are parsed
// versus silently ignored. A domain-specific overlay may extend the base
// catalog at startup; overlay entries shadow base entries of the same
// kind.
package catalog

// RuleSchema describes one rule kind's attribute buckets by semantic type,
// grounded on the base/overlay rule tables of the original implementation
// (buildcleaner's rule.py TensorflowRules/_rules and the tensorflow
// overlay's TfRules).
type RuleSchema struct {
	Kind string

	LabelListArgs    []string
	LabelArgs        []string
	StringListArgs   []string
	StringArgs       []string
	BoolArgs         []string
	IntArgs          []string
	StrStrMapArgs    []string
	OutLabelListArgs []string
	OutLabelArgs     []string
	// OutputsTemplates holds templated output names containing a "{name}"
	// placeholder, substituted when the rule is parsed.
	OutputsTemplates []string

	// Macro marks a rule as a user-facing macro rather than a build-tool
	// primitive (informational; used by emitters/transformers that treat
	// macros differently from primitive rules).
	Macro bool
	// ImportStatement is the load(...) directive to emit alongside any
	// target of this kind, or "" if the kind needs none (builtin rules).
	ImportStatement string
	// Visibility reports whether targets of this kind accept a visibility
	// attribute on emission.
	Visibility bool
	// NoEmit marks a kind that is parsed and tracked for dependency
	// resolution but never printed by the build-file emitter (e.g. bind).
	NoEmit bool
}

// Catalog is an immutable rule-kind lookup table.
type Catalog struct {
	rules   map[string]RuleSchema
	ignored map[string]bool
}

// New builds a Catalog from an explicit rule and ignored-kind set.
func New(rules map[string]RuleSchema, ignored []string) *Catalog {
	ig := make(map[string]bool, len(ignored))
	for _, k := range ignored {
		ig[k] = true
	}
	r := make(map[string]RuleSchema, len(rules))
	for k, v := range rules {
		r[k] = v
	}
	return &Catalog{rules: r, ignored: ig}
}

// Lookup returns the schema for a rule kind, if known.
func (c *Catalog) Lookup(kind string) (RuleSchema, bool) {
	s, ok := c.rules[kind]
	return s, ok
}

// IsIgnored reports whether a rule kind is recognized but discarded.
func (c *Catalog) IsIgnored(kind string) bool {
	return c.ignored[kind]
}

// Kinds returns every rule kind this catalog can parse, for use by tests
// and debug dumps.
func (c *Catalog) Kinds() []string {
	out := make([]string, 0, len(c.rules))
	for k := range c.rules {
		out = append(out, k)
	}
	return out
}

// Merge layers an overlay catalog over a base catalog: overlay rule and
// ignored entries shadow base entries of the same kind; everything else
// from base passes through unchanged.
func Merge(base, overlay *Catalog) *Catalog {
	merged := New(base.rules, nil)
	for k := range base.ignored {
		merged.ignored[k] = true
	}
	if overlay == nil {
		return merged
	}
	for k, v := range overlay.rules {
		merged.rules[k] = v
		delete(merged.ignored, k)
	}
	for k := range overlay.ignored {
		merged.ignored[k] = true
		delete(merged.rules, k)
	}
	return merged
}
