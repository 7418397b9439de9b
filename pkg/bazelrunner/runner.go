// Package bazelrunner is the Collector's external-query collaborator: it
// shells out to the build tool's query/cquery interface and returns its
// stdout. Grounded on
// original_source/src/buildcleaner/runner.go (BazelRunner.query_deps_output)
// for the command shape, and the teacher repo's pkg/bazel/executor.go for
// the Go Executor abstraction (subprocess vs. mock).
package bazelrunner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Format is a query output format understood by the build tool.
type Format string

const (
	FormatBuild     Format = "build"
	FormatLabelKind Format = "label_kind"
)

// Config carries the per-invocation parameters that shape the cquery
// command line (§6.1's base_targets.bazel_config).
type Config struct {
	Tool   string // build-tool binary name, default "bazel"
	Config string // --config value, empty to omit
}

// Executor runs one query command and returns its captured stdout. The
// real implementation shells out; tests substitute a fake.
type Executor interface {
	RunQuery(ctx context.Context, workspacePath string, args []string) ([]byte, error)
}

// DefaultExecutor invokes the configured tool as an OS subprocess.
type DefaultExecutor struct{}

func (DefaultExecutor) RunQuery(ctx context.Context, workspacePath string, args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("bazelrunner: empty command")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = workspacePath
	out, err := cmd.Output()
	// Exit status is not inspected (§6.2): only stdout is consumed.
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return out, nil
		}
		return nil, fmt.Errorf("bazelrunner: spawn failed: %w", err)
	}
	return out, nil
}

// Runner drives one Executor with a fixed Config.
type Runner struct {
	Exec         Executor
	Config       Config
	WorkspaceDir string
}

// New constructs a Runner, defaulting the tool name to "bazel" and the
// executor to DefaultExecutor.
func New(workspaceDir string, cfg Config) *Runner {
	if cfg.Tool == "" {
		cfg.Tool = "bazel"
	}
	return &Runner{Exec: DefaultExecutor{}, Config: cfg, WorkspaceDir: workspaceDir}
}

// QueryDeps runs `<tool> cquery [--config=<cfg>] deps(<union>) [--keep_going]
// --output <fmt> [-- -<excluded>...]` per §6.2, returning the captured
// stdout text.
func (r *Runner) QueryDeps(ctx context.Context, targets []string, format Format, excluded []string) (string, error) {
	args := buildArgs(r.Config, targets, format, excluded)
	out, err := r.Exec.RunQuery(ctx, r.WorkspaceDir, args)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func buildArgs(cfg Config, targets []string, format Format, excluded []string) []string {
	quoted := make([]string, len(targets))
	for i, t := range targets {
		quoted[i] = "'" + t + "'"
	}
	union := strings.Join(quoted, " union ")

	args := []string{cfg.Tool, "cquery"}
	if cfg.Config != "" {
		args = append(args, "--config="+cfg.Config)
	}
	args = append(args, fmt.Sprintf("deps(%s)", union), "--keep_going", "--output", string(format))
	if len(excluded) > 0 {
		args = append(args, "--")
		for _, e := range excluded {
			args = append(args, "-"+e)
		}
	}
	return args
}
