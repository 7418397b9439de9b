package emit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// LayoutExecutor runs the layout engine with dot text on stdin and returns
// its stdout. Mirrors pkg/bazelrunner's Executor split so tests can
// substitute a fake instead of shelling out.
type LayoutExecutor interface {
	Render(ctx context.Context, dot string) ([]byte, error)
}

// DefaultLayoutExecutor invokes `twopi -Tsvg` per §6.3.
type DefaultLayoutExecutor struct {
	Tool string // default "twopi"
}

func (e DefaultLayoutExecutor) Render(ctx context.Context, dot string) ([]byte, error) {
	tool := e.Tool
	if tool == "" {
		tool = "twopi"
	}
	cmd := exec.CommandContext(ctx, tool, "-Tsvg")
	cmd.Stdin = bytes.NewBufferString(dot)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("emit: layout engine failed: %w", err)
	}
	return out, nil
}

// RenderSVG pipes a rendered dot digraph through the layout engine and
// returns the SVG.
func RenderSVG(ctx context.Context, layout LayoutExecutor, dot string) ([]byte, error) {
	return layout.Render(ctx, dot)
}
