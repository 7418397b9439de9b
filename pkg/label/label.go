// Package label implements the canonical target-label algebra: parsing a
// label into its external/repo/package/name components and computing the
// label of a node's parent container.
package label

import (
	"fmt"
	"regexp"
	"strings"
)

// Label is a canonical reference [@]<repo>//<package-path>:<name>.
type Label struct {
	External bool
	Repo     string
	Package  string
	Name     string
}

// InvalidLabelError reports a string that does not match the canonical
// label shape.
type InvalidLabelError struct {
	Input string
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("invalid label: %q", e.Input)
}

var labelRe = regexp.MustCompile(`^(@)?(\w*)//([0-9a-zA-Z_.\-/]*):([0-9a-zA-Z_.+/\-]+)$`)

// Parse decomposes a target label. It fails with InvalidLabelError when the
// input does not match @?<word>*//<pkg_chars>*:<name_chars>+.
func Parse(s string) (Label, error) {
	m := labelRe.FindStringSubmatch(s)
	if m == nil {
		return Label{}, &InvalidLabelError{Input: s}
	}
	return Label{
		External: m[1] == "@",
		Repo:     m[2],
		Package:  m[3],
		Name:     m[4],
	}, nil
}

// MustParse is Parse but panics on error; used for literals constructed by
// code rather than user input.
func MustParse(s string) Label {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String reconstructs the canonical label text.
func (l Label) String() string {
	var b strings.Builder
	if l.External {
		b.WriteByte('@')
	}
	b.WriteString(l.Repo)
	b.WriteString("//")
	b.WriteString(l.Package)
	b.WriteByte(':')
	b.WriteString(l.Name)
	return b.String()
}

// ContainerLabel returns the label of the package that owns this target:
// the same repo/package with no ":name" suffix.
func (l Label) ContainerLabel() string {
	return FormatContainer(l.External, l.Repo, l.Package)
}

// FormatContainer builds the label string of a package or repository
// container: "[@]repo//path" with path empty for a repository.
func FormatContainer(external bool, repo, path string) string {
	var b strings.Builder
	if external {
		b.WriteByte('@')
	}
	b.WriteString(repo)
	b.WriteString("//")
	b.WriteString(path)
	return b.String()
}

var containerRe = regexp.MustCompile(`^(@)?(\w*)//([0-9a-zA-Z_.\-/]*)$`)

// ParseContainer decomposes a package or repository label (no ":name").
func ParseContainer(s string) (external bool, repo, path string, err error) {
	m := containerRe.FindStringSubmatch(s)
	if m == nil {
		return false, "", "", &InvalidLabelError{Input: s}
	}
	return m[1] == "@", m[2], m[3], nil
}

// RootLabel is the label of the internal or external forest root.
func RootLabel(external bool) string {
	if external {
		return "@"
	}
	return ""
}

// Parent returns the label of the parent container for a container label
// (package or repository), and whether the parent is the forest root.
//
// A nested package peels one trailing path segment to reach its parent
// package; a top-most package's parent is its repository; a repository's
// parent is the root. The root has no parent.
func Parent(containerLabel string) (parent string, isRoot bool, err error) {
	external, repo, path, err := ParseContainer(containerLabel)
	if err != nil {
		return "", false, err
	}
	if path == "" {
		// This was a repository; its parent is the root.
		return RootLabel(external), true, nil
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return FormatContainer(external, repo, path[:idx]), false, nil
	}
	// Top-most package; parent is the repository.
	return FormatContainer(external, repo, ""), false, nil
}

// IsTopMostPackage reports whether path is a top-most package: a single
// non-empty path segment such as "a" (labels "<repo>//a:<name>"), as
// opposed to a nested package such as "a/b". The empty path is not
// top-most.
func IsTopMostPackage(path string) bool {
	return path != "" && !strings.Contains(path, "/")
}
