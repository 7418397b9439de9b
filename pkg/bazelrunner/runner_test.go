package bazelrunner

import (
	"context"
	"strings"
	"testing"
)

func TestBuildArgsShape(t *testing.T) {
	args := buildArgs(Config{Tool: "bazel", Config: "ci"}, []string{"//a:b", "//c:d"}, FormatBuild, []string{"//x:y"})
	joined := strings.Join(args, " ")
	want := "bazel cquery --config=ci deps('//a:b' union '//c:d') --keep_going --output build -- -//x:y"
	if joined != want {
		t.Errorf("buildArgs = %q, want %q", joined, want)
	}
}

func TestRunnerQueryDepsUsesMock(t *testing.T) {
	r := New("/workspace", Config{})
	mock := &MockExecutor{Responses: map[string][]byte{}}
	r.Exec = mock

	args := buildArgs(r.Config, []string{"//a:b"}, FormatBuild, nil)
	mock.Responses[joinArgs(args)] = []byte("cc_library(name = \"b\")")

	out, err := r.QueryDeps(context.Background(), []string{"//a:b"}, FormatBuild, nil)
	if err != nil {
		t.Fatalf("QueryDeps: %v", err)
	}
	if out != "cc_library(name = \"b\")" {
		t.Errorf("QueryDeps = %q", out)
	}
	if len(mock.Calls) != 1 {
		t.Errorf("expected 1 call, got %d", len(mock.Calls))
	}
}
