package label

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"//pkg:a",
		"//a/b/c:name",
		"@repo//x/y:z",
		"//:top",
	}
	for _, in := range cases {
		l, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := l.String(); got != in {
			t.Errorf("Parse(%q).String() = %q, want %q", in, got, in)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"not-a-label", "//pkg", "pkg:a"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestParent(t *testing.T) {
	cases := []struct {
		in       string
		want     string
		wantRoot bool
	}{
		{"//a/b", "//a", false},
		{"//a", "//", false},
		{"//", "", true},
		{"@repo//x/y", "@repo//x", false},
		{"@repo//", "@", true},
	}
	for _, c := range cases {
		got, isRoot, err := Parent(c.in)
		if err != nil {
			t.Fatalf("Parent(%q): %v", c.in, err)
		}
		if got != c.want || isRoot != c.wantRoot {
			t.Errorf("Parent(%q) = (%q, %v), want (%q, %v)", c.in, got, isRoot, c.want, c.wantRoot)
		}
	}
}

func TestContainerLabel(t *testing.T) {
	l := MustParse("//a/b:name")
	if got := l.ContainerLabel(); got != "//a/b" {
		t.Errorf("ContainerLabel() = %q, want //a/b", got)
	}
}
