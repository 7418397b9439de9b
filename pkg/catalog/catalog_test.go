package catalog

import "testing"

func TestBuiltinLookup(t *testing.T) {
	c := Builtin()
	s, ok := c.Lookup("cc_library")
	if !ok {
		t.Fatal("cc_library not found")
	}
	if len(s.LabelListArgs) == 0 {
		t.Error("cc_library should declare label_list args")
	}
	if c.IsIgnored("cc_library") {
		t.Error("cc_library should not be ignored")
	}
	if !c.IsIgnored("py_library") {
		t.Error("py_library should be ignored")
	}
}

func TestMergeOverlayShadowsBase(t *testing.T) {
	base := Builtin()
	overlay := New(map[string]RuleSchema{
		"cc_library": {Kind: "cc_library", LabelListArgs: []string{"srcs"}},
		"my_rule":    {Kind: "my_rule", StringArgs: []string{"value"}},
	}, []string{"cc_binary"})

	merged := Merge(base, overlay)

	s, ok := merged.Lookup("cc_library")
	if !ok || len(s.LabelListArgs) != 1 {
		t.Errorf("overlay cc_library should shadow base: got %+v", s)
	}
	if _, ok := merged.Lookup("my_rule"); !ok {
		t.Error("overlay-only rule should be present after merge")
	}
	if !merged.IsIgnored("cc_binary") {
		t.Error("overlay ignored kind should be ignored after merge")
	}
	if merged.IsIgnored("cc_library") {
		t.Error("cc_library should not be ignored after being reintroduced by overlay")
	}
}
